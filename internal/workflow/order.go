package workflow

// SortGap is the spacing between consecutive sort keys within a column. The
// sparse spacing leaves room for future insertions without a full renumber.
const SortGap = 1000

// SortKey returns the sort_order value for the item at the given zero-based
// position within its column.
func SortKey(index int) int {
	return (index + 1) * SortGap
}

// SortKeys assigns sort keys to an ordered column, preserving request order.
func SortKeys(ids []string) map[string]int {
	keys := make(map[string]int, len(ids))
	for i, id := range ids {
		keys[id] = SortKey(i)
	}
	return keys
}
