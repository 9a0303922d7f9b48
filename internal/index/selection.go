package index

import (
	"readings/internal/tags"
)

// Selection maps tag names to the user's choice. Only tags known to the
// catalog can be set.
type Selection struct {
	catalog *tags.Catalog
	chosen  map[string]bool
}

// NewSelection returns an empty selection bound to catalog
func NewSelection(catalog *tags.Catalog) *Selection {
	return &Selection{
		catalog: catalog,
		chosen:  make(map[string]bool),
	}
}

// Set marks tag as selected or not. Unknown tags fail with tags.ErrUnknownTag.
func (s *Selection) Set(tag string, on bool) error {
	if _, err := s.catalog.CategoryOf(tag); err != nil {
		return err
	}
	if on {
		s.chosen[tag] = true
	} else {
		delete(s.chosen, tag)
	}
	return nil
}

// Toggle flips the state of tag
func (s *Selection) Toggle(tag string) error {
	return s.Set(tag, !s.chosen[tag])
}

// IsSelected reports whether tag is selected
func (s *Selection) IsSelected(tag string) bool {
	return s.chosen[tag]
}

// Empty reports whether no tag is selected
func (s *Selection) Empty() bool {
	return len(s.chosen) == 0
}

// Selected returns the selected tags in catalog order
func (s *Selection) Selected() []string {
	var result []string
	for _, tag := range s.catalog.AllTags() {
		if s.chosen[tag] {
			result = append(result, tag)
		}
	}
	return result
}

// Clone returns an independent copy
func (s *Selection) Clone() *Selection {
	c := NewSelection(s.catalog)
	for tag := range s.chosen {
		c.chosen[tag] = true
	}
	return c
}

// group is the set of selected tags of one category
type group struct {
	category string
	tags     []string
}

// groups returns the non-empty category groups in catalog order
func (s *Selection) groups() []group {
	var result []group
	for _, cat := range s.catalog.Categories() {
		var selected []string
		for _, tag := range cat.Tags {
			owner, _ := s.catalog.CategoryOf(tag)
			if owner == cat.Name && s.chosen[tag] {
				selected = append(selected, tag)
			}
		}
		if len(selected) > 0 {
			result = append(result, group{category: cat.Name, tags: selected})
		}
	}
	return result
}
