// Package tags reads tag definition files and keeps the table of tag
// categories the rest of the program filters against.
package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"readings/internal/frontmatter"
	"readings/internal/logs"
)

// ErrUnknownTag is returned when a tag name is not declared by any category.
var ErrUnknownTag = errors.New("unknown tag")

// Extract returns the tag names listed in the front matter of the file at
// path, in file order with duplicates preserved.
func Extract(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return frontmatter.Tags(content), nil
}

// Category is a named group of related tags backed by one definition file
type Category struct {
	Name string
	Tags []string
}

// Catalog is the read-only table of all tag categories
type Catalog struct {
	categories []Category
	owner      map[string]string
	all        []string
}

// NewCatalog builds a catalog from categories in the given order. Categories
// sharing a name are merged into the first one. A tag declared by two
// categories belongs to the first one.
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{
		categories: mergeByName(categories),
		owner:      make(map[string]string),
	}
	for _, cat := range c.categories {
		for _, tag := range cat.Tags {
			if prev, ok := c.owner[tag]; ok {
				if prev != cat.Name {
					logs.Warn("tag %q is declared by %q and %q; keeping %q", tag, prev, cat.Name, prev)
				}
				continue
			}
			c.owner[tag] = cat.Name
			c.all = append(c.all, tag)
		}
	}
	return c
}

func mergeByName(categories []Category) []Category {
	var merged []Category
	pos := make(map[string]int, len(categories))
	for _, cat := range categories {
		i, ok := pos[cat.Name]
		if !ok {
			pos[cat.Name] = len(merged)
			merged = append(merged, Category{
				Name: cat.Name,
				Tags: append([]string(nil), cat.Tags...),
			})
			continue
		}
		merged[i].Tags = append(merged[i].Tags, cat.Tags...)
	}
	return merged
}

// LoadCatalog reads every file in dir as a tag category. A missing or empty
// directory is reported as a warning and yields an empty catalog.
func LoadCatalog(dir string) (*Catalog, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(nil), []string{fmt.Sprintf("'%s' folder does not exist", dir)}, nil
		}
		return nil, nil, err
	}

	var warnings []string
	var categories []Category
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		names, err := Extract(path)
		if err != nil {
			return nil, warnings, fmt.Errorf("read tag file %s: %w", path, err)
		}
		name := CategoryName(entry.Name())
		if first, ok := seen[name]; ok {
			warnings = append(warnings, fmt.Sprintf("'%s' and '%s' both define category '%s'; merging them", first, entry.Name(), name))
		} else {
			seen[name] = entry.Name()
		}
		categories = append(categories, Category{
			Name: name,
			Tags: names,
		})
	}

	if len(categories) == 0 {
		warnings = append(warnings, fmt.Sprintf("'%s' folder is empty", dir))
	}

	return NewCatalog(categories), warnings, nil
}

// CategoryName derives a category name from a tag definition file name
func CategoryName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Categories returns the categories in load order
func (c *Catalog) Categories() []Category {
	return c.categories
}

// AllTags returns every known tag once, in category then file order
func (c *Catalog) AllTags() []string {
	return c.all
}

// Has reports whether tag is declared by any category
func (c *Catalog) Has(tag string) bool {
	_, ok := c.owner[tag]
	return ok
}

// CategoryOf returns the category owning tag, or ErrUnknownTag
func (c *Catalog) CategoryOf(tag string) (string, error) {
	name, ok := c.owner[tag]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	return name, nil
}
