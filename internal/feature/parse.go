package feature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentic-research/patternmine/internal/board"
)

// ErrSyntax is returned for strings that are not canonical feature forms.
var ErrSyntax = errors.New("invalid feature")

// Parse reverses Feature.String for features of b.
func Parse(b *board.Board, s string) (Feature, error) {
	kind, ref, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	switch {
	case kind == "red" || kind == "black":
		e, err := edgeRef(b, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
		}
		if kind == "red" {
			return RedEdge{Edge: e}, nil
		}
		return BlackEdge{Edge: e}, nil

	case strings.HasPrefix(kind, "sector-not-"):
		v, err := strconv.Atoi(strings.TrimPrefix(kind, "sector-not-"))
		if err != nil || v < 0 || v > 2 {
			return nil, fmt.Errorf("%w: %q: bad sector value", ErrSyntax, s)
		}
		i, err := index(ref, "s", len(b.Sectors))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
		}
		return SectorNot{Sector: b.Sectors[i], Value: v}, nil

	case kind == "face-same" || kind == "face-opposite":
		ra, rb, ok := strings.Cut(ref, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q: expected face pair", ErrSyntax, s)
		}
		a, err := index(ra, "f", len(b.Faces))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
		}
		c, err := index(rb, "f", len(b.Faces))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
		}
		for _, p := range b.FacePairs() {
			if p.A.Index == a && p.B.Index == c {
				return FaceColorDual{Pair: p, Opposite: kind == "face-opposite"}, nil
			}
		}
		return nil, fmt.Errorf("%w: %q: faces not connected", ErrSyntax, s)

	case kind == "face-value":
		rf, rv, ok := strings.Cut(ref, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q: expected value", ErrSyntax, s)
		}
		i, err := index(rf, "f", len(b.Faces))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
		}
		v, err := strconv.Atoi(rv)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
		}
		return FaceValue{Face: b.Faces[i], Value: v}, nil
	}
	return nil, fmt.Errorf("%w: %q: unknown kind", ErrSyntax, s)
}

// ParseSet parses every string and adds it to a new set.
func ParseSet(b *board.Board, strs []string) (*Set, error) {
	s := NewSet(b)
	for _, str := range strs {
		f, err := Parse(b, str)
		if err != nil {
			return nil, err
		}
		if err := s.Add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func edgeRef(b *board.Board, ref string) (*board.Edge, error) {
	if ref == "" {
		return nil, errors.New("empty edge")
	}
	i, err := index(ref[1:], "", len(b.Edges))
	if err != nil {
		return nil, err
	}
	e := b.Edges[i]
	if e.String() != ref {
		return nil, fmt.Errorf("edge %s is %s", ref, e)
	}
	return e, nil
}

func index(ref, prefix string, n int) (int, error) {
	if !strings.HasPrefix(ref, prefix) {
		return 0, fmt.Errorf("expected %s prefix in %q", prefix, ref)
	}
	i, err := strconv.Atoi(ref[len(prefix):])
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range", i)
	}
	return i, nil
}
