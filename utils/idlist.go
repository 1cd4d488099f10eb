package utils

import (
	"strconv"
	"strings"
)

// SplitIDList splits a comma-joined ID string into trimmed, deduplicated IDs,
// preserving first-occurrence order. Empty input yields an empty slice.
func SplitIDList(s string) []string {
	ids := []string{}
	if strings.TrimSpace(s) == "" {
		return ids
	}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// JoinIDList serializes IDs back into the comma-joined storage form.
func JoinIDList(ids []string) string {
	return strings.Join(ids, ",")
}

// FormatUint renders a numeric ID in the form used by stored ID lists.
func FormatUint(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

// CountIDList returns the number of unique IDs in a comma-joined list.
func CountIDList(s string) int {
	return len(SplitIDList(s))
}
