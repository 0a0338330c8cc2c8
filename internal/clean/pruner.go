// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"errors"
	"fmt"
	"sort"
)

// ErrPageRange is returned when a page index falls outside the document.
var ErrPageRange = errors.New("page index out of range")

// Prune deletes the pages at indices (0-based, pre-deletion). Duplicates
// are ignored and pages are removed highest index first so the remaining
// indices stay valid. Every index is checked before anything is deleted.
// It returns the number of pages deleted.
func Prune(doc Document, indices []int) (int, error) {
	n := doc.PageCount()
	set := map[int]bool{}
	for _, i := range indices {
		if i < 0 || i >= n {
			return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrPageRange, i, n)
		}
		set[i] = true
	}

	order := make([]int, 0, len(set))
	for i := range set {
		order = append(order, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	for k, i := range order {
		if err := doc.DeletePage(i); err != nil {
			return k, fmt.Errorf("deleting page %d: %w", i, err)
		}
	}
	return len(order), nil
}

// Remaining returns, in order, the original indices of an n-page document
// that survive deleting indices.
func Remaining(n int, indices []int) []int {
	drop := map[int]bool{}
	for _, i := range indices {
		drop[i] = true
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !drop[i] {
			out = append(out, i)
		}
	}
	return out
}
