package lattice

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContext builds a context from plain rows (no optional bits).
func newTestContext(n int, rows ...uint64) *SolutionFormalContext {
	sols := make([]SolutionAttributeSet, len(rows))
	for i, r := range rows {
		sols[i] = NewSolutionAttributeSet(AttributeSetFromUint64(n, r), EmptyAttributeSet(n))
	}
	return NewSolutionFormalContext(n, sols)
}

// randomContext builds a population with optional bits confined to optBits.
func randomContext(rng *rand.Rand, n, m int, optBits []int) *SolutionFormalContext {
	sols := make([]SolutionAttributeSet, m)
	for i := range sols {
		data := randomSet(rng, n)
		optional := EmptyAttributeSet(n)
		for _, b := range optBits {
			if !data.Has(b) && rng.Intn(3) == 0 {
				optional = optional.With(b)
			}
		}
		sols[i] = NewSolutionAttributeSet(data, optional)
	}
	return NewSolutionFormalContext(n, sols)
}

func TestClosure_Textbook(t *testing.T) {
	//      a  b  c
	// 0:   1  1  0
	// 1:   1  0  1
	// 2:   0  1  1
	ctx := newTestContext(3, 0b011, 0b101, 0b110)

	assert.True(t, ctx.Closure(EmptyAttributeSet(3)).IsEmpty())
	assert.Equal(t, "001", ctx.Closure(AttributeSetOf(3, 0)).String())
	// no object has all three: closure is the full (invalid) set
	assert.True(t, ctx.Closure(AttributeSetOf(3, 0, 1, 2)).IsFull())
	assert.Equal(t, uint64(1), ctx.Extent(AttributeSetOf(3, 0, 1)).GetCardinality())
}

func TestClosure_EmptyPopulation(t *testing.T) {
	ctx := NewSolutionFormalContext(5, nil)
	assert.True(t, ctx.Closure(EmptyAttributeSet(5)).IsFull())
}

func TestClosure_OptionalBitsFollowQuery(t *testing.T) {
	n := 3
	// solution 0 definitely has bit 0, bit 2 is ambiguous
	// solution 1 definitely has bits 0 and 2
	ctx := NewSolutionFormalContext(n, []SolutionAttributeSet{
		NewSolutionAttributeSet(AttributeSetOf(n, 0), AttributeSetOf(n, 2)),
		NewSolutionAttributeSet(AttributeSetOf(n, 0, 2), EmptyAttributeSet(n)),
	})

	// without assuming bit 2 the ambiguous solution does not provide it
	assert.Equal(t, "001", ctx.Closure(EmptyAttributeSet(n)).String())
	// assuming bit 2, the ambiguity agrees with the assumption
	assert.Equal(t, "101", ctx.Closure(AttributeSetOf(n, 2)).String())
}

func TestClosure_Axioms(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := 4 + rng.Intn(8)
		ctx := randomContext(rng, n, 3+rng.Intn(20), []int{0, 1})
		for k := 0; k < 30; k++ {
			s := randomSet(rng, n)
			u := s.Union(randomSet(rng, n))
			cs := ctx.Closure(s)

			assert.True(t, s.IsSubsetOf(cs), "extensive")
			assert.True(t, ctx.Closure(cs).Equals(cs), "idempotent")
			assert.True(t, cs.IsSubsetOf(ctx.Closure(u)), "monotone")
		}
	}
}

func TestTablePruner_Transparent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		n := 6 + rng.Intn(10)
		keyBits := []int{0, 2, 3}
		ctx := randomContext(rng, n, 5+rng.Intn(40), keyBits)
		pruner := NewTablePruner(ctx, keyBits)
		require.Equal(t, n, pruner.NumAttributes())

		for k := 0; k < 50; k++ {
			s := randomSet(rng, n)
			assert.True(t, ctx.Closure(s).Equals(pruner.Closure(s)), "closure of %s", s)
		}
	}
}

func TestTablePruner_BucketNarrowsScan(t *testing.T) {
	n := 3
	ctx := newTestContext(n, 0b001, 0b011, 0b110, 0b100)
	pruner := NewTablePruner(ctx, []int{0})

	assert.Equal(t, uint64(4), pruner.BucketSize(EmptyAttributeSet(n)))
	assert.Equal(t, uint64(2), pruner.BucketSize(AttributeSetOf(n, 0)))
}

func TestTablePruner_TooManyKeyBits(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := MaxPrunerBits + 4
	keyBits := make([]int, n)
	for i := range keyBits {
		keyBits[i] = i
	}
	ctx := randomContext(rng, n, 30, keyBits)
	pruner := NewTablePruner(ctx, keyBits)
	for k := 0; k < 20; k++ {
		s := randomSet(rng, n)
		assert.True(t, ctx.Closure(s).Equals(pruner.Closure(s)))
	}
}
