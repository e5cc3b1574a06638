// Package layout packs overlapping intervals of one day into side-by-side
// columns.
package layout

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidInterval is returned by Validate when an interval ends before it starts.
var ErrInvalidInterval = errors.New("interval end must not be before start")

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two intervals share at least one minute.
// Intervals that only touch at an endpoint do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	a, b := iv.normalized(), other.normalized()
	return a.Start < b.End && b.Start < a.End
}

// normalized widens a zero-length interval to one minute.
func (iv Interval) normalized() Interval {
	if iv.End == iv.Start {
		iv.End = iv.Start + 1
	}
	return iv
}

// ColumnAssignment places one interval inside its overlap cluster.
type ColumnAssignment struct {
	Column       int // 0-indexed, < TotalColumns
	TotalColumns int // peak concurrency of the interval's cluster
}

// Validate rejects intervals with End < Start. Zero-length intervals pass
// and are laid out as one minute long.
func Validate(intervals []Interval) error {
	for i, iv := range intervals {
		if iv.End < iv.Start {
			return fmt.Errorf("%w: #%d [%d, %d)", ErrInvalidInterval, i, iv.Start, iv.End)
		}
	}
	return nil
}

// Resolve assigns a column to every interval. The result is index-aligned
// with the input. Callers must Validate first; the assignment for an
// interval with End < Start is unspecified.
func Resolve(intervals []Interval) []ColumnAssignment {
	out := make([]ColumnAssignment, len(intervals))
	if len(intervals) == 0 {
		return out
	}

	norm := make([]Interval, len(intervals))
	for i, iv := range intervals {
		norm[i] = iv.normalized()
	}

	for _, cluster := range clusterIndices(norm) {
		columns := assignColumns(norm, cluster)
		total := peakConcurrency(norm, cluster)
		for k, idx := range cluster {
			out[idx] = ColumnAssignment{Column: columns[k], TotalColumns: total}
		}
	}
	return out
}

// Clusters partitions the intervals into connected overlap clusters.
// Each cluster lists input indices in start order.
func Clusters(intervals []Interval) [][]int {
	norm := make([]Interval, len(intervals))
	for i, iv := range intervals {
		norm[i] = iv.normalized()
	}
	return clusterIndices(norm)
}

// sortedIndices orders indices by start, then end.
func sortedIndices(intervals []Interval) []int {
	idx := make([]int, len(intervals))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		ia, ib := intervals[a], intervals[b]
		if ia.Start != ib.Start {
			return ia.Start - ib.Start
		}
		return ia.End - ib.End
	})
	return idx
}

// clusterIndices sweeps the sorted intervals with a running maximum end.
// An interval that starts before that end joins the current cluster, which
// also links two otherwise disjoint intervals through a third one.
func clusterIndices(intervals []Interval) [][]int {
	var clusters [][]int
	var current []int
	clusterEnd := 0

	for _, idx := range sortedIndices(intervals) {
		iv := intervals[idx]
		if len(current) > 0 && iv.Start >= clusterEnd {
			clusters = append(clusters, current)
			current = nil
		}
		if len(current) == 0 || iv.End > clusterEnd {
			clusterEnd = iv.End
		}
		current = append(current, idx)
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters
}

// assignColumns gives each interval of a start-ordered cluster the smallest
// column not held by a still-active interval.
func assignColumns(intervals []Interval, cluster []int) []int {
	type occupant struct {
		end    int
		column int
	}

	columns := make([]int, len(cluster))
	var active []occupant

	for k, idx := range cluster {
		iv := intervals[idx]

		active = slices.DeleteFunc(active, func(o occupant) bool {
			return o.end <= iv.Start
		})

		used := make(map[int]bool, len(active))
		for _, o := range active {
			used[o.column] = true
		}
		col := 0
		for used[col] {
			col++
		}

		columns[k] = col
		active = append(active, occupant{end: iv.End, column: col})
	}
	return columns
}

// peakConcurrency returns the largest number of intervals active at one
// instant. Ends sort before starts at the same minute.
func peakConcurrency(intervals []Interval, cluster []int) int {
	type edge struct {
		at    int
		delta int
	}

	edges := make([]edge, 0, 2*len(cluster))
	for _, idx := range cluster {
		iv := intervals[idx]
		edges = append(edges, edge{at: iv.Start, delta: 1}, edge{at: iv.End, delta: -1})
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if a.at != b.at {
			return a.at - b.at
		}
		return a.delta - b.delta
	})

	peak, running := 0, 0
	for _, e := range edges {
		running += e.delta
		peak = max(peak, running)
	}
	return max(peak, 1)
}
