// Package api holds the document shapes exchanged with the outside world:
// pattern board descriptions and persisted rule records.
package api

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned when a generic document does not have the
// expected shape.
var ErrMalformed = errors.New("malformed document")

// BoardDocument describes a pattern board. Interior edges are numbered
// first, in order, followed by one exit edge per entry of Exits.
type BoardDocument struct {
	// Name of the board.
	Name string `json:"name"`
	// Vertices is the vertex count.
	Vertices int `json:"vertices"`
	// Edges lists interior edges as vertex pairs.
	Edges [][2]int `json:"edges"`
	// Exits lists the vertex of each exit edge.
	Exits []int `json:"exits,omitempty"`
	// Faces in index order.
	Faces []FaceDocument `json:"faces,omitempty"`
}

// FaceDocument describes one face by its edge indices (cyclic order for
// non-exit faces).
type FaceDocument struct {
	Exit  bool  `json:"exit,omitempty"`
	Edges []int `json:"edges"`
}

// Generic converts the document to plain maps and slices for encoding.
func (d BoardDocument) Generic() map[string]any {
	edges := make([]any, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = []any{int64(e[0]), int64(e[1])}
	}
	faces := make([]any, len(d.Faces))
	for i, f := range d.Faces {
		fm := map[string]any{"edges": intsToAny(f.Edges)}
		if f.Exit {
			fm["exit"] = true
		}
		faces[i] = fm
	}
	return map[string]any{
		"name":     d.Name,
		"vertices": int64(d.Vertices),
		"edges":    edges,
		"exits":    intsToAny(d.Exits),
		"faces":    faces,
	}
}

// BoardDocumentFromGeneric reads a document from decoded JSON.
func BoardDocumentFromGeneric(v any) (BoardDocument, error) {
	var d BoardDocument
	m, ok := v.(map[string]any)
	if !ok {
		return d, fmt.Errorf("%w: board must be an object", ErrMalformed)
	}
	d.Name, _ = m["name"].(string)

	n, err := toInt(m["vertices"])
	if err != nil {
		return d, fmt.Errorf("vertices: %w", err)
	}
	d.Vertices = n

	edges, _ := m["edges"].([]any)
	for i, raw := range edges {
		pair, err := toInts(raw)
		if err != nil || len(pair) != 2 {
			return d, fmt.Errorf("%w: edge %d must be a vertex pair", ErrMalformed, i)
		}
		d.Edges = append(d.Edges, [2]int{pair[0], pair[1]})
	}

	if raw, ok := m["exits"]; ok {
		if d.Exits, err = toInts(raw); err != nil {
			return d, fmt.Errorf("exits: %w", err)
		}
	}

	faces, _ := m["faces"].([]any)
	for i, raw := range faces {
		fm, ok := raw.(map[string]any)
		if !ok {
			return d, fmt.Errorf("%w: face %d must be an object", ErrMalformed, i)
		}
		var f FaceDocument
		f.Exit, _ = fm["exit"].(bool)
		if f.Edges, err = toInts(fm["edges"]); err != nil {
			return d, fmt.Errorf("face %d: %w", i, err)
		}
		d.Faces = append(d.Faces, f)
	}
	return d, nil
}

func intsToAny(in []int) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrMalformed, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrMalformed, v)
	}
}

func toInts(v any) ([]int, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected list, got %T", ErrMalformed, v)
	}
	out := make([]int, len(list))
	for i, item := range list {
		n, err := toInt(item)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
