// Package catalog is the fixed table of icon categories a diagram node may use.
//
// Categories are tags of the form "group:name" (for example
// "compute:function-app" or "identity:managed-identity"). The table belongs to
// the rendering side: every entry carries the Graphviz styling the renderer
// applies, and the diagram builder rejects any tag that is not listed here with
// an INVALID_CATEGORY error.
//
//	icon, ok := catalog.Lookup(catalog.FunctionApp)
//	err := catalog.Validate("nonexistent:category") // INVALID_CATEGORY
//
// A custom [Table] can be built with [NewTable] and handed to the builder
// when a diagram needs icons outside the built-in set.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Category is an icon tag such as "storage:blob".
type Category string

// Group returns the part of the tag before the colon ("storage" for "storage:blob").
func (c Category) Group() string {
	group, _, _ := strings.Cut(string(c), ":")
	return group
}

// Provider identifies the icon family an entry belongs to.
type Provider string

const (
	ProviderAzure       Provider = "azure"
	ProviderOnPrem      Provider = "onprem"
	ProviderProgramming Provider = "programming"
	ProviderGeneric     Provider = "generic"
)

// Icon describes how a category is drawn.
type Icon struct {
	Category Category
	Provider Provider
	Caption  string // Human-readable name, shown in detailed labels
	Shape    string // Graphviz node shape
	Fill     string // Fill colour
	Border   string // Outline colour
}

// Catalog resolves categories to icons.
type Catalog interface {
	Lookup(c Category) (Icon, bool)
}

// Table is an immutable Catalog backed by a map.
type Table struct {
	icons map[Category]Icon
}

// NewTable builds a table from icons. It returns INVALID_CATEGORY when a tag
// is empty, lacks the "group:name" form, or appears twice.
func NewTable(icons ...Icon) (*Table, error) {
	t := &Table{icons: make(map[Category]Icon, len(icons))}
	for _, icon := range icons {
		group, name, ok := strings.Cut(string(icon.Category), ":")
		if !ok || group == "" || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidCategory, "category %q must have the form group:name", icon.Category)
		}
		if _, dup := t.icons[icon.Category]; dup {
			return nil, errors.New(errors.ErrCodeInvalidCategory, "duplicate category %q", icon.Category)
		}
		if icon.Shape == "" {
			icon.Shape = "box"
		}
		t.icons[icon.Category] = icon
	}
	return t, nil
}

// Lookup returns the icon for c.
func (t *Table) Lookup(c Category) (Icon, bool) {
	icon, ok := t.icons[c]
	return icon, ok
}

// Has reports whether c is in the table.
func (t *Table) Has(c Category) bool {
	_, ok := t.icons[c]
	return ok
}

// Validate returns INVALID_CATEGORY if c is not in the table.
func (t *Table) Validate(c Category) error {
	if !t.Has(c) {
		return errors.New(errors.ErrCodeInvalidCategory, "unknown category %q", c)
	}
	return nil
}

// All returns every icon sorted by category.
func (t *Table) All() []Icon {
	out := make([]Icon, 0, len(t.icons))
	for _, icon := range t.icons {
		out = append(out, icon)
	}
	slices.SortFunc(out, func(a, b Icon) int { return cmp.Compare(a.Category, b.Category) })
	return out
}

// Len returns the number of categories.
func (t *Table) Len() int { return len(t.icons) }

var _ Catalog = (*Table)(nil)

// Lookup resolves c in the built-in table.
func Lookup(c Category) (Icon, bool) { return defaultTable.Lookup(c) }

// Has reports whether c is in the built-in table.
func Has(c Category) bool { return defaultTable.Has(c) }

// Validate checks c against the built-in table.
func Validate(c Category) error { return defaultTable.Validate(c) }

// All lists the built-in icons sorted by category.
func All() []Icon { return defaultTable.All() }

// Default returns the built-in table.
func Default() *Table { return defaultTable }
