package board

import (
	"fmt"

	"github.com/agentic-research/patternmine/api"
	"github.com/ohler55/ojg/oj"
)

// FromDocument builds a board from its document form.
func FromDocument(doc api.BoardDocument) (*Board, error) {
	bb := NewBuilder(doc.Name)
	for i := 0; i < doc.Vertices; i++ {
		bb.AddVertex()
	}
	for _, e := range doc.Edges {
		bb.AddEdge(e[0], e[1])
	}
	for _, v := range doc.Exits {
		bb.AddExitEdge(v)
	}
	for _, f := range doc.Faces {
		bb.AddFace(f.Exit, f.Edges...)
	}
	return bb.Build()
}

// ParseDocument decodes a JSON board description.
func ParseDocument(data []byte) (*Board, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse board json: %w", err)
	}
	doc, err := api.BoardDocumentFromGeneric(v)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// ToDocument describes b. Interior edges must precede exit edges in b for the
// document to round-trip with the same indices, which holds for every board
// produced by FromDocument and the standard constructors.
func ToDocument(b *Board) api.BoardDocument {
	doc := api.BoardDocument{Name: b.name, Vertices: len(b.Vertices)}
	for _, e := range b.Edges {
		if e.IsExit {
			doc.Exits = append(doc.Exits, e.Vertices[0].Index)
		} else {
			doc.Edges = append(doc.Edges, [2]int{e.Vertices[0].Index, e.Vertices[1].Index})
		}
	}
	for _, f := range b.Faces {
		fd := api.FaceDocument{Exit: f.IsExit}
		for _, e := range f.Edges {
			fd.Edges = append(fd.Edges, e.Index)
		}
		doc.Faces = append(doc.Faces, fd)
	}
	return doc
}

// EncodeDocument renders b as JSON.
func EncodeDocument(b *Board) string {
	return oj.JSON(ToDocument(b).Generic(), &oj.Options{Sort: true})
}
