package lattice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ErrDimensionMismatch is the panic value raised when two attribute sets of
// different widths are combined.
var ErrDimensionMismatch = errors.New("attribute set width mismatch")

// AttributeSet is an immutable fixed-width bit-vector over the attributes of a
// formal context. Bit i set means attribute i holds. Bits are compared as an
// integer, so the highest index is the most significant in lectic order.
type AttributeSet struct {
	n    int
	bits *bitset.BitSet
}

// EmptyAttributeSet returns the set with no attributes of width n.
func EmptyAttributeSet(n int) AttributeSet {
	return AttributeSet{n: n, bits: bitset.New(uint(n))}
}

// FullAttributeSet returns the set with every attribute of width n.
func FullAttributeSet(n int) AttributeSet {
	b := bitset.New(uint(n))
	b.FlipRange(0, uint(n))
	return AttributeSet{n: n, bits: b}
}

// AttributeSetOf returns a width-n set holding the given attribute indices.
func AttributeSetOf(n int, indices ...int) AttributeSet {
	b := bitset.New(uint(n))
	for _, i := range indices {
		if i < 0 || i >= n {
			panic(fmt.Sprintf("attribute %d out of range [0,%d)", i, n))
		}
		b.Set(uint(i))
	}
	return AttributeSet{n: n, bits: b}
}

// AttributeSetFromUint64 builds a set from the low n bits of v. Handy for
// small universes in tests and fixtures.
func AttributeSetFromUint64(n int, v uint64) AttributeSet {
	b := bitset.New(uint(n))
	for i := 0; i < n && i < 64; i++ {
		if v&(1<<uint(i)) != 0 {
			b.Set(uint(i))
		}
	}
	return AttributeSet{n: n, bits: b}
}

// Width returns the number of attributes the set ranges over.
func (s AttributeSet) Width() int { return s.n }

func (s AttributeSet) check(other AttributeSet) {
	if s.n != other.n {
		panic(fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, s.n, other.n))
	}
}

// Has reports whether attribute i is in the set.
func (s AttributeSet) Has(i int) bool {
	if i < 0 || i >= s.n {
		return false
	}
	return s.bits.Test(uint(i))
}

// With returns a copy of the set with attribute i added.
func (s AttributeSet) With(i int) AttributeSet {
	b := s.bits.Clone()
	b.Set(uint(i))
	return AttributeSet{n: s.n, bits: b}
}

// Union returns s ∪ other.
func (s AttributeSet) Union(other AttributeSet) AttributeSet {
	s.check(other)
	return AttributeSet{n: s.n, bits: s.bits.Union(other.bits)}
}

// Intersection returns s ∩ other.
func (s AttributeSet) Intersection(other AttributeSet) AttributeSet {
	s.check(other)
	return AttributeSet{n: s.n, bits: s.bits.Intersection(other.bits)}
}

// Difference returns s \ other.
func (s AttributeSet) Difference(other AttributeSet) AttributeSet {
	s.check(other)
	return AttributeSet{n: s.n, bits: s.bits.Difference(other.bits)}
}

// Complement returns the attributes of the universe not in s.
func (s AttributeSet) Complement() AttributeSet {
	return AttributeSet{n: s.n, bits: s.bits.Complement()}
}

// IsSubsetOf reports s ⊆ other.
func (s AttributeSet) IsSubsetOf(other AttributeSet) bool {
	s.check(other)
	return other.bits.IsSuperSet(s.bits)
}

// IsProperSubsetOf reports s ⊊ other.
func (s AttributeSet) IsProperSubsetOf(other AttributeSet) bool {
	s.check(other)
	return other.bits.IsStrictSuperSet(s.bits)
}

// Equals reports bit-for-bit equality.
func (s AttributeSet) Equals(other AttributeSet) bool {
	s.check(other)
	return s.bits.Equal(other.bits)
}

// IsEmpty reports whether no attribute is set.
func (s AttributeSet) IsEmpty() bool {
	return s.bits.None()
}

// IsFull reports whether every attribute is set.
func (s AttributeSet) IsFull() bool {
	return int(s.bits.Count()) == s.n
}

// Cardinality returns the number of attributes in the set.
func (s AttributeSet) Cardinality() int {
	return int(s.bits.Count())
}

// IsLessThanI is the lectic successor test: attribute i is in other but not
// in s, and both sets agree on every attribute above i.
func (s AttributeSet) IsLessThanI(other AttributeSet, i int) bool {
	s.check(other)
	if s.Has(i) || !other.Has(i) {
		return false
	}
	diff := s.bits.SymmetricDifference(other.bits)
	_, above := diff.NextSet(uint(i) + 1)
	return !above
}

// Below returns the attributes of s with index strictly less than i.
func (s AttributeSet) Below(i int) AttributeSet {
	b := s.bits.Clone()
	for j, ok := b.NextSet(uint(i)); ok; j, ok = b.NextSet(j + 1) {
		b.Clear(j)
	}
	return AttributeSet{n: s.n, bits: b}
}

// Above returns the attributes of s with index strictly greater than i.
func (s AttributeSet) Above(i int) AttributeSet {
	b := bitset.New(uint(s.n))
	for j, ok := s.bits.NextSet(uint(i) + 1); ok; j, ok = s.bits.NextSet(j + 1) {
		b.Set(j)
	}
	return AttributeSet{n: s.n, bits: b}
}

// Bits returns the set attribute indices in ascending order.
func (s AttributeSet) Bits() []int {
	out := make([]int, 0, s.bits.Count())
	for j, ok := s.bits.NextSet(0); ok; j, ok = s.bits.NextSet(j + 1) {
		out = append(out, int(j))
	}
	return out
}

// Compare orders sets lectically (as integers): -1, 0 or 1.
func (s AttributeSet) Compare(other AttributeSet) int {
	s.check(other)
	for i := s.n - 1; i >= 0; i-- {
		a, b := s.Has(i), other.Has(i)
		if a != b {
			if b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// String renders the set as a binary literal, most significant bit first.
func (s AttributeSet) String() string {
	var sb strings.Builder
	sb.Grow(s.n)
	for i := s.n - 1; i >= 0; i-- {
		if s.Has(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Builder is the mutable accumulator counterpart of AttributeSet. It is only
// used inside closure loops where repeated allocation would dominate.
type Builder struct {
	n    int
	bits *bitset.BitSet
}

// NewBuilder starts an accumulator holding a copy of s.
func NewBuilder(s AttributeSet) *Builder {
	return &Builder{n: s.n, bits: s.bits.Clone()}
}

// Set adds attribute i.
func (b *Builder) Set(i int) {
	b.bits.Set(uint(i))
}

// UnionWith adds every attribute of s.
func (b *Builder) UnionWith(s AttributeSet) {
	if b.n != s.n {
		panic(fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, b.n, s.n))
	}
	b.bits.InPlaceUnion(s.bits)
}

// IntersectWith keeps only the attributes also in s.
func (b *Builder) IntersectWith(s AttributeSet) {
	if b.n != s.n {
		panic(fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, b.n, s.n))
	}
	b.bits.InPlaceIntersection(s.bits)
}

// Contains reports whether every attribute of s is accumulated already.
func (b *Builder) Contains(s AttributeSet) bool {
	return b.bits.IsSuperSet(s.bits)
}

// Build snapshots the accumulator into an immutable set.
func (b *Builder) Build() AttributeSet {
	return AttributeSet{n: b.n, bits: b.bits.Clone()}
}
