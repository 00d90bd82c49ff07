package database

import (
	"sort"
	"strings"
)

// SortNames sorts provider names case-insensitively. Names that differ only
// by case keep a stable byte-order tiebreak.
func SortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
}
