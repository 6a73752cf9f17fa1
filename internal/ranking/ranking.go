// Package ranking turns a scored set of subjects into a total order with
// explicit rank numbers. It is pure in-memory computation with no I/O.
package ranking

import (
	"sort"
	"strings"
)

// Subject is one scored entry to be ranked. Key is an opaque identity carried
// through to the output (participants use their email); it lets callers with
// duplicate display names tell the ranked results apart.
type Subject struct {
	Key    string
	Name   string
	Points int
}

// Ranked is a subject with its assigned rank, 1 = best
type Ranked struct {
	Key    string
	Name   string
	Points int
	Rank   int
}

// Rank sorts subjects by points descending and assigns consecutive ranks
// 1..N. Ties are broken by name ascending, case-insensitive, so the order is
// deterministic regardless of input order; tied subjects still receive
// distinct, consecutive ranks (dense ranking). An empty input produces an
// empty ranking.
func Rank(subjects []Subject) []Ranked {
	sorted := make([]Subject, len(subjects))
	copy(sorted, subjects)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		a, b := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if a != b {
			return a < b
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		// Identical names fall back to the key so the order is still total
		return sorted[i].Key < sorted[j].Key
	})

	ranked := make([]Ranked, len(sorted))
	for i, s := range sorted {
		ranked[i] = Ranked{Key: s.Key, Name: s.Name, Points: s.Points, Rank: i + 1}
	}
	return ranked
}
