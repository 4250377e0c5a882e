package lattice

import "fmt"

// SolutionAttributeSet is one object of the formal context: the attributes a
// solution definitely has (Data) plus the attributes it may be read as having
// (Optional). Optional bits never overlap Data.
type SolutionAttributeSet struct {
	Data         AttributeSet
	Optional     AttributeSet
	WithOptional AttributeSet
}

// NewSolutionAttributeSet pairs data with its optional mask.
func NewSolutionAttributeSet(data, optional AttributeSet) SolutionAttributeSet {
	if !data.Intersection(optional).IsEmpty() {
		panic(fmt.Sprintf("optional bits overlap data: %s & %s", data, optional))
	}
	return SolutionAttributeSet{
		Data:         data,
		Optional:     optional,
		WithOptional: data.Union(optional),
	}
}

// Matches reports whether the solution is consistent with the query set.
func (s SolutionAttributeSet) Matches(query AttributeSet) bool {
	return query.IsSubsetOf(s.WithOptional)
}

// Resolve returns the solution's attributes with every optional bit decided
// the way the query decides it.
func (s SolutionAttributeSet) Resolve(query AttributeSet) AttributeSet {
	return s.Data.Union(query.Intersection(s.Optional))
}

// Implication states that the antecedent attributes force the consequent.
type Implication struct {
	Antecedent AttributeSet
	Consequent AttributeSet
}

func (imp Implication) String() string {
	return fmt.Sprintf("%s -> %s", imp.Antecedent, imp.Consequent)
}
