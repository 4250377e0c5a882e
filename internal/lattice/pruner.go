package lattice

import (
	"github.com/RoaringBitmap/roaring"
)

// MaxPrunerBits caps how many key bits a TablePruner tracks (2^k buckets).
const MaxPrunerBits = 16

// TablePruner accelerates Closure by bucketing solutions on a handful of key
// attributes (the exit-edge red bits). Bucket K holds every solution that
// could carry all of K's attributes, so a query only scans the bucket named by
// its own key attributes. Results are identical to the plain context.
type TablePruner struct {
	ctx     *SolutionFormalContext
	keyBits []int
	buckets []*roaring.Bitmap
}

// NewTablePruner indexes ctx on keyBits. Only the first MaxPrunerBits key
// bits are tracked; the remainder are still honoured by the superset test.
func NewTablePruner(ctx *SolutionFormalContext, keyBits []int) *TablePruner {
	if len(keyBits) > MaxPrunerBits {
		keyBits = keyBits[:MaxPrunerBits]
	}
	k := len(keyBits)
	p := &TablePruner{
		ctx:     ctx,
		keyBits: append([]int(nil), keyBits...),
		buckets: make([]*roaring.Bitmap, 1<<k),
	}
	for i := range p.buckets {
		p.buckets[i] = roaring.New()
	}
	for idx, sol := range ctx.solutions {
		mask := p.key(sol.WithOptional)
		// every submask of mask, including mask itself and zero
		sub := mask
		for {
			p.buckets[sub].Add(uint32(idx))
			if sub == 0 {
				break
			}
			sub = (sub - 1) & mask
		}
	}
	for _, b := range p.buckets {
		b.RunOptimize()
	}
	return p
}

func (p *TablePruner) key(s AttributeSet) int {
	k := 0
	for i, bit := range p.keyBits {
		if s.Has(bit) {
			k |= 1 << i
		}
	}
	return k
}

// NumAttributes implements ClosureOracle.
func (p *TablePruner) NumAttributes() int { return p.ctx.numAttributes }

// BucketSize reports how many solutions a query with attrs would scan.
func (p *TablePruner) BucketSize(attrs AttributeSet) uint64 {
	return p.buckets[p.key(attrs)].GetCardinality()
}

// Closure implements ClosureOracle using the bucket matching attrs.
func (p *TablePruner) Closure(attrs AttributeSet) AttributeSet {
	acc := NewBuilder(FullAttributeSet(p.ctx.numAttributes))
	iter := p.buckets[p.key(attrs)].Iterator()
	for iter.HasNext() {
		sol := p.ctx.solutions[iter.Next()]
		if sol.Matches(attrs) {
			acc.IntersectWith(sol.Resolve(attrs))
		}
	}
	return acc.Build()
}
