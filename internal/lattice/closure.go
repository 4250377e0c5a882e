package lattice

import "time"

// Progress is handed to Options.Progress every ReportEvery iterations.
type Progress struct {
	Iteration    int
	Current      AttributeSet
	Implications int
	Elapsed      time.Duration
}

// Options tunes NextClosure.
type Options struct {
	// ReportEvery is the iteration period of Progress callbacks (0 disables).
	ReportEvery int
	Progress    func(Progress)
	// DisableImpliedMasks forces the naive candidate scan.
	DisableImpliedMasks bool
}

// NextClosure walks the closed and pseudo-closed sets of the oracle in lectic
// order (Ganter's algorithm) and returns one implication per pseudo-intent:
// the Duquenne-Guigues basis. Implications come out in lectic order of their
// antecedents.
func NextClosure(oracle ClosureOracle, opts Options) []Implication {
	n := oracle.NumAttributes()
	start := time.Now()

	var implications []Implication
	index := newImplicationIndex(n)
	// impliedMasks[i] holds the attributes above i forced by {i} alone.
	impliedMasks := make([]*AttributeSet, n)

	current := EmptyAttributeSet(n)
	for iteration := 1; ; iteration++ {
		closed := oracle.Closure(current)
		if !closed.Equals(current) {
			imp := Implication{Antecedent: current, Consequent: closed}
			implications = append(implications, imp)
			index.add(imp)
			if !opts.DisableImpliedMasks && current.Cardinality() == 1 {
				i := current.Bits()[0]
				mask := closed.Above(i)
				impliedMasks[i] = &mask
			}
		}

		if opts.ReportEvery > 0 && opts.Progress != nil && iteration%opts.ReportEvery == 0 {
			opts.Progress(Progress{
				Iteration:    iteration,
				Current:      current,
				Implications: len(implications),
				Elapsed:      time.Since(start),
			})
		}

		next, ok := nextPseudoClosedSet(current, index, impliedMasks)
		if !ok {
			break
		}
		current = next
	}
	return implications
}

// nextPseudoClosedSet finds the lectically next set after current that is
// closed under the implications found so far. Returns false when current is
// the last one (the full attribute set).
func nextPseudoClosedSet(current AttributeSet, index *implicationIndex, impliedMasks []*AttributeSet) (AttributeSet, bool) {
	n := current.Width()
	for i := 0; i < n; i++ {
		if current.Has(i) {
			continue
		}
		// {i} -> mask is in the basis, so any candidate holding i holds mask.
		if mask := impliedMasks[i]; mask != nil && !mask.IsSubsetOf(current) {
			continue
		}
		candidate := index.close(current.Above(i).With(i))
		if current.IsLessThanI(candidate, i) {
			return candidate, true
		}
	}
	return AttributeSet{}, false
}

// implicationIndex closes sets under a growing implication list in time
// linear in the implications touched (LinClosure): each attribute lists the
// implications whose antecedent holds it, and an implication fires once
// every antecedent attribute has been reached.
type implicationIndex struct {
	n             int
	consequents   [][]int
	sizes         []int
	byAttribute   [][]int
	unconditional []int
}

func newImplicationIndex(n int) *implicationIndex {
	return &implicationIndex{n: n, byAttribute: make([][]int, n)}
}

func (x *implicationIndex) add(imp Implication) {
	j := len(x.consequents)
	ant := imp.Antecedent.Bits()
	x.consequents = append(x.consequents, imp.Consequent.Bits())
	x.sizes = append(x.sizes, len(ant))
	if len(ant) == 0 {
		x.unconditional = append(x.unconditional, j)
	}
	for _, a := range ant {
		x.byAttribute[a] = append(x.byAttribute[a], j)
	}
}

// close returns the smallest superset of attrs that respects every indexed
// implication.
func (x *implicationIndex) close(attrs AttributeSet) AttributeSet {
	in := make([]bool, x.n)
	remaining := append([]int(nil), x.sizes...)
	queue := attrs.Bits()
	for _, a := range queue {
		in[a] = true
	}
	fire := func(j int) {
		for _, b := range x.consequents[j] {
			if !in[b] {
				in[b] = true
				queue = append(queue, b)
			}
		}
	}
	for _, j := range x.unconditional {
		fire(j)
	}
	for len(queue) > 0 {
		a := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, j := range x.byAttribute[a] {
			remaining[j]--
			if remaining[j] == 0 {
				fire(j)
			}
		}
	}

	acc := NewBuilder(EmptyAttributeSet(x.n))
	for i, ok := range in {
		if ok {
			acc.Set(i)
		}
	}
	return acc.Build()
}
