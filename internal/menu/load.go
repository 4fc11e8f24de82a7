package menu

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

var titlePolicy = bluemonday.StrictPolicy()

// Decode reads a JSON menu in storefront API shape. A JSON null yields (nil, nil).
// Titles are reduced to plain text and ids are made unique.
func Decode(r io.Reader) (*Menu, error) {
	var raw *Menu
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("menu: decode json: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	m := Normalize(*raw)
	return &m, nil
}

// LoadFile reads a menu override from disk. Files ending in .json are decoded as JSON,
// anything else as YAML.
func LoadFile(path string) (*Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return Decode(f)
	}
	var raw Menu
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("menu: parse %s: %w", path, err)
	}
	m := Normalize(raw)
	return &m, nil
}

// Normalize trims ids and URLs, reduces titles to plain text and drops repeated ids.
func Normalize(raw Menu) Menu {
	items := make([]Item, 0, len(raw.Items))
	for _, it := range raw.Items {
		it.ID = strings.TrimSpace(it.ID)
		it.URL = strings.TrimSpace(it.URL)
		it.Title = plainText(it.Title)
		items = append(items, it)
	}
	return New(strings.TrimSpace(raw.ID), items...)
}

// plainText strips markup from CMS supplied labels. bluemonday escapes the text it
// keeps, so the result is unescaped again before it reaches the template layer.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(s)))
}
