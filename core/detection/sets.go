// Package detection - sorted string-set helpers shared with enrichment
package detection

import "sort"

// SortedUnique returns a sorted copy of ids with empties and duplicates removed
func SortedUnique(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether ids holds id
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Intersect returns the sorted intersection a ∩ b
func Intersect(a, b []string) []string {
	var out []string
	for _, id := range a {
		if Contains(b, id) {
			out = append(out, id)
		}
	}
	return SortedUnique(out)
}

// Subtract returns the sorted difference a \ b
func Subtract(a, b []string) []string {
	var out []string
	for _, id := range a {
		if !Contains(b, id) {
			out = append(out, id)
		}
	}
	return SortedUnique(out)
}

// Union returns the sorted union a ∪ b
func Union(a, b []string) []string {
	return SortedUnique(append(append([]string{}, a...), b...))
}
