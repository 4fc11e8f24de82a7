package menu

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Item is a single navigation entry as delivered by the storefront content API.
// An empty URL means the entry has no destination and is never rendered.
type Item struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	URL        string   `json:"url" yaml:"url"`
	Type       string   `json:"type" yaml:"type"`
	Tags       []string `json:"tags" yaml:"tags"`
	ResourceID string   `json:"resourceId" yaml:"resource_id"`
	Items      []Item   `json:"items" yaml:"items"`
}

// Menu is an ordered list of items; slice order is render order.
type Menu struct {
	ID    string `json:"id" yaml:"id"`
	Items []Item `json:"items" yaml:"items"`
}

var (
	// ErrEmptyID is reported for items without an identifier.
	ErrEmptyID = errors.New("menu: item has empty id")
	// ErrDuplicateID is reported for items whose id was already used.
	ErrDuplicateID = errors.New("menu: duplicate item id")
)

// New builds a menu whose item ids are unique. When an id repeats, the first
// occurrence is kept and later ones are dropped. Items without an id are kept;
// renderers key them by position.
func New(id string, items ...Item) Menu {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != "" {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
		}
		out = append(out, it)
	}
	return Menu{ID: id, Items: out}
}

// Validate reports every empty or repeated id in items.
func Validate(items []Item) error {
	var err error
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if it.ID == "" {
			err = multierr.Append(err, fmt.Errorf("%w (position %d)", ErrEmptyID, i))
			continue
		}
		if first, dup := seen[it.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("%w %q (positions %d and %d)", ErrDuplicateID, it.ID, first, i))
			continue
		}
		seen[it.ID] = i
	}
	return err
}

// Empty reports whether m is nil or carries no items.
func (m *Menu) Empty() bool {
	return m == nil || len(m.Items) == 0
}
