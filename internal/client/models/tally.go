package models

import (
	"cmp"
	"slices"
)

type NomineeCount struct {
	NomineeName string `json:"nominee_name"`
	Count       int    `json:"count"`
}

// Tally counts nominations per nominee name, highest first. Ties are ordered
// by name so the output is stable.
func Tally(nominations []Nomination) []NomineeCount {
	counts := make(map[string]int)
	for _, n := range nominations {
		counts[n.NomineeName]++
	}

	out := make([]NomineeCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, NomineeCount{NomineeName: name, Count: c})
	}
	slices.SortFunc(out, func(a, b NomineeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.NomineeName, b.NomineeName)
	})
	return out
}
