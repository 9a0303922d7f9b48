package index

// Filter returns the rows matching sel, in index order. Within a category the
// selected tags are OR'd; across categories the results are AND'd. Categories
// without a selection impose nothing, so an empty selection keeps every row.
func (idx *Index) Filter(sel *Selection) []*Row {
	groups := sel.groups()

	result := make([]*Row, 0, len(idx.Rows))
	for _, row := range idx.Rows {
		if matchesAll(row, groups) {
			result = append(result, row)
		}
	}
	return result
}

func matchesAll(row *Row, groups []group) bool {
	for _, g := range groups {
		if !matchesAny(row, g.tags) {
			return false
		}
	}
	return true
}

func matchesAny(row *Row, tags []string) bool {
	for _, tag := range tags {
		if row.Flags[tag] {
			return true
		}
	}
	return false
}
