package lattice

import (
	"github.com/RoaringBitmap/roaring"
)

// ClosureOracle computes closures over a fixed attribute universe.
type ClosureOracle interface {
	NumAttributes() int
	Closure(attrs AttributeSet) AttributeSet
}

// SolutionFormalContext is the incidence table of a solution population.
// Objects are solutions, attributes are feature bits. Row-major: each row is a
// solution's attribute set together with its optional mask.
type SolutionFormalContext struct {
	numAttributes int
	solutions     []SolutionAttributeSet
}

// NewSolutionFormalContext builds a context over the given solutions, all of
// width numAttributes.
func NewSolutionFormalContext(numAttributes int, solutions []SolutionAttributeSet) *SolutionFormalContext {
	for _, sol := range solutions {
		if sol.Data.Width() != numAttributes {
			panic(ErrDimensionMismatch)
		}
	}
	return &SolutionFormalContext{
		numAttributes: numAttributes,
		solutions:     solutions,
	}
}

// NumAttributes implements ClosureOracle.
func (ctx *SolutionFormalContext) NumAttributes() int { return ctx.numAttributes }

// Solutions returns the objects of the context.
func (ctx *SolutionFormalContext) Solutions() []SolutionAttributeSet { return ctx.solutions }

// Extent returns the solutions consistent with every attribute in S.
func (ctx *SolutionFormalContext) Extent(attrs AttributeSet) *roaring.Bitmap {
	result := roaring.New()
	for i, sol := range ctx.solutions {
		if sol.Matches(attrs) {
			result.Add(uint32(i))
		}
	}
	return result
}

// Intent computes the attributes common to the given solutions, with each
// solution's optional bits resolved against attrs. An empty extent yields the
// full set.
func (ctx *SolutionFormalContext) Intent(extent *roaring.Bitmap, attrs AttributeSet) AttributeSet {
	acc := NewBuilder(FullAttributeSet(ctx.numAttributes))
	iter := extent.Iterator()
	for iter.HasNext() {
		acc.IntersectWith(ctx.solutions[iter.Next()].Resolve(attrs))
	}
	return acc.Build()
}

// Closure computes S” by scanning the whole population.
func (ctx *SolutionFormalContext) Closure(attrs AttributeSet) AttributeSet {
	acc := NewBuilder(FullAttributeSet(ctx.numAttributes))
	for _, sol := range ctx.solutions {
		if sol.Matches(attrs) {
			acc.IntersectWith(sol.Resolve(attrs))
		}
	}
	return acc.Build()
}
