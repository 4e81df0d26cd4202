package bezier

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// SegmentSet is an ordered set of segment indices, used to collect the
// segments touched by a batch of edits.
type SegmentSet struct {
	set *treeset.Set
}

// NewSegmentSet creates a set holding indices.
func NewSegmentSet(indices ...int) *SegmentSet {
	s := &SegmentSet{set: treeset.NewWithIntComparator()}
	s.Add(indices...)
	return s
}

// Add inserts segment indices. Negative indices are ignored.
func (s *SegmentSet) Add(indices ...int) {
	for _, i := range indices {
		if i >= 0 {
			s.set.Add(i)
		}
	}
}

// Contains is a predicate.
func (s *SegmentSet) Contains(i int) bool {
	return s.set.Contains(i)
}

// Len is the number of indices in the set.
func (s *SegmentSet) Len() int {
	return s.set.Size()
}

// Empty is a predicate.
func (s *SegmentSet) Empty() bool {
	return s.set.Empty()
}

// Clear removes all indices.
func (s *SegmentSet) Clear() {
	s.set.Clear()
}

// Indices returns the indices in ascending order.
func (s *SegmentSet) Indices() []int {
	r := make([]int, 0, s.set.Size())
	it := s.set.Iterator()
	for it.Next() {
		r = append(r, it.Value().(int))
	}
	return r
}

func (s *SegmentSet) clone() *SegmentSet {
	return NewSegmentSet(s.Indices()...)
}
