package param

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Marks is a set of parameter positions backed by a 32-bit Roaring Bitmap.
// It wraps the official roaring implementation. Negative positions are
// ignored; validation belongs to Registry.
type Marks struct {
	rb *roaring.Bitmap
}

// NewMarks creates a mark set holding the given positions.
func NewMarks(positions ...int) *Marks {
	m := &Marks{
		rb: roaring.New(),
	}
	for _, p := range positions {
		m.Mark(p)
	}
	return m
}

// Mark adds a position to the set.
func (m *Marks) Mark(position int) {
	if position < 0 {
		return
	}
	m.rb.Add(uint32(position))
}

// Unmark removes a position from the set.
func (m *Marks) Unmark(position int) {
	if position < 0 {
		return
	}
	m.rb.Remove(uint32(position))
}

// Marked checks if a position is in the set.
func (m *Marks) Marked(position int) bool {
	if position < 0 {
		return false
	}
	return m.rb.Contains(uint32(position))
}

// IsEmpty returns true if no positions are marked.
func (m *Marks) IsEmpty() bool {
	return m.rb.IsEmpty()
}

// Cardinality returns the number of marked positions.
func (m *Marks) Cardinality() uint64 {
	return m.rb.GetCardinality()
}

// Positions returns all marked positions in ascending order.
func (m *Marks) Positions() []int {
	out := make([]int, 0, m.rb.GetCardinality())
	for p := range m.Iterator() {
		out = append(out, p)
	}
	return out
}

// Clone returns a deep copy of the mark set.
func (m *Marks) Clone() *Marks {
	return &Marks{
		rb: m.rb.Clone(),
	}
}

// Or computes the union of two mark sets in place.
func (m *Marks) Or(other *Marks) {
	m.rb.Or(other.rb)
}

// Iterator returns an iterator over marked positions in ascending order.
func (m *Marks) Iterator() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := m.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}
