package highlander

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentic-research/patternmine/internal/board"
	"github.com/agentic-research/patternmine/internal/feature"
	"github.com/agentic-research/patternmine/internal/featuremap"
	"github.com/agentic-research/patternmine/internal/lattice"
)

// survivorCacheSize bounds the number of distinct filters a Pruner remembers.
const survivorCacheSize = 4096

// Pruner is a closure oracle over a highlander-filtered population. Each
// query S is decoded on top of the base features, and the population is
// filtered against that active set before the closure is taken, so every
// closure sees exactly the solutions a rule with input base+S relies on.
type Pruner struct {
	fm        *featuremap.BinaryFeatureMap
	base      *feature.Set
	solutions []board.Coloring
	attrs     []lattice.SolutionAttributeSet
	survivors *lru.Cache[string, *roaring.Bitmap]
}

// NewPruner builds a pruner over solutions, which must all satisfy base.
func NewPruner(fm *featuremap.BinaryFeatureMap, base *feature.Set, solutions []board.Coloring) (*Pruner, error) {
	if base.Board() != fm.Board() {
		return nil, fmt.Errorf("base features belong to %s, not %s", base.Board().Name(), fm.Board().Name())
	}
	cache, err := lru.New[string, *roaring.Bitmap](survivorCacheSize)
	if err != nil {
		return nil, err
	}
	attrs := make([]lattice.SolutionAttributeSet, len(solutions))
	for i, c := range solutions {
		attrs[i] = fm.SolutionAttributeSet(c)
	}
	return &Pruner{
		fm:        fm,
		base:      base.Clone(),
		solutions: solutions,
		attrs:     attrs,
		survivors: cache,
	}, nil
}

// NumAttributes implements lattice.ClosureOracle.
func (p *Pruner) NumAttributes() int { return p.fm.NumAttributes() }

// Active decodes attrs on top of the base features.
func (p *Pruner) Active(attrs lattice.AttributeSet) (*feature.Set, error) {
	delta, err := p.fm.BitsFeatureSet(attrs)
	if err != nil {
		return nil, err
	}
	active := p.base.Clone()
	if err := active.ApplyFeaturesFrom(delta); err != nil {
		return nil, err
	}
	return active, nil
}

// Survivors returns the indices of the solutions kept under the active set.
func (p *Pruner) Survivors(active *feature.Set) *roaring.Bitmap {
	k := filterKey(active)
	if keep, ok := p.survivors.Get(k); ok {
		return keep
	}
	keep := Survivors(p.solutions, active)
	keep.RunOptimize()
	p.survivors.Add(k, keep)
	return keep
}

// Closure implements lattice.ClosureOracle. Contradictory queries close to
// the full set, as they would in a population no solution matches.
func (p *Pruner) Closure(attrs lattice.AttributeSet) lattice.AttributeSet {
	acc := lattice.NewBuilder(lattice.FullAttributeSet(p.fm.NumAttributes()))
	active, err := p.Active(attrs)
	if err != nil {
		return acc.Build()
	}
	iter := p.Survivors(active).Iterator()
	for iter.HasNext() {
		sol := p.attrs[iter.Next()]
		if sol.Matches(attrs) {
			acc.IntersectWith(sol.Resolve(attrs))
		}
	}
	return acc.Build()
}

// filterKey captures everything Survivors reads from the set: the
// indeterminate edges and the edges required red.
func filterKey(set *feature.Set) string {
	var sb strings.Builder
	for _, e := range Indeterminate(set) {
		sb.WriteString(strconv.Itoa(e.Index))
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, e := range requiredRed(set) {
		sb.WriteString(strconv.Itoa(e.Index))
		sb.WriteByte(',')
	}
	return sb.String()
}
