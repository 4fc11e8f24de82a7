package cms

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no page exists for a slug.
var ErrNotFound = errors.New("cms: page not found")

// Page is a policy or static page rendered from local markdown.
type Page struct {
	Slug      string
	Title     string
	Summary   string
	BodyHTML  string
	UpdatedAt time.Time
	SEO       PageSEO
}

// PageSEO holds optional metadata overrides.
type PageSEO struct {
	Title       string
	Description string
}

type frontMatter struct {
	Title     string         `yaml:"title"`
	Summary   string         `yaml:"summary"`
	Format    string         `yaml:"format"`
	UpdatedAt string         `yaml:"updated_at"`
	SEO       frontMatterSEO `yaml:"seo"`
}

type frontMatterSEO struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

const (
	defaultDir      = "content"
	defaultCacheTTL = 5 * time.Minute
)

// Store reads pages from <dir>/<kind>/<slug>.md and keeps rendered results for a while.
type Store struct {
	dir    string
	ttl    time.Duration
	md     goldmark.Markdown
	policy *bluemonday.Policy

	mu    sync.RWMutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// NewStore returns a Store rooted at dir. A non-positive ttl uses the default.
func NewStore(dir string, ttl time.Duration) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultDir
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Store{
		dir:    dir,
		ttl:    ttl,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		cache:  map[string]cacheEntry{},
		now:    time.Now,
	}
}

// Page returns the rendered page for kind and slug.
func (s *Store) Page(kind, slug string) (Page, error) {
	kind = sanitizeSlug(kind)
	slug = sanitizeSlug(slug)
	if kind == "" || slug == "" {
		return Page{}, ErrNotFound
	}
	key := kind + "/" + slug
	if p, ok := s.cached(key); ok {
		return p, nil
	}
	p, err := s.read(kind, slug)
	if err != nil {
		return Page{}, err
	}
	s.store(key, p)
	return p, nil
}

func (s *Store) read(kind, slug string) (Page, error) {
	file := filepath.Join(s.dir, kind, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}

	rendered := body
	if !strings.EqualFold(strings.TrimSpace(front.Format), "html") {
		var buf bytes.Buffer
		if err := s.md.Convert([]byte(body), &buf); err != nil {
			return Page{}, fmt.Errorf("cms: render %s: %w", file, err)
		}
		rendered = buf.String()
	}

	page := Page{
		Slug:     slug,
		Title:    strings.TrimSpace(front.Title),
		Summary:  strings.TrimSpace(front.Summary),
		BodyHTML: s.policy.Sanitize(rendered),
		SEO: PageSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
		},
		UpdatedAt: parseDate(front.UpdatedAt),
	}
	if page.UpdatedAt.IsZero() {
		if info, statErr := os.Stat(file); statErr == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		// fall back to slug prettified
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func (s *Store) cached(key string) (Page, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return Page{}, false
	}
	return entry.page, true
}

func (s *Store) store(key string, p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{page: p, expires: s.now().Add(s.ttl)}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
