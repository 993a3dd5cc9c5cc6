// ABOUTME: JSON heap dump format written by gc.Heap.Dump
// ABOUTME: Encoder plus the registered parser that reads it back

package heapdump

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/prateek/cyclegc/graph"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON is the parser for JSON dumps
type JSON struct{}

type jsonDump struct {
	Objects []jsonObject  `json:"objects"`
	Roots   []graph.ObjID `json:"roots"`
}

type jsonObject struct {
	ID    graph.ObjID   `json:"id"`
	Type  string        `json:"type"`
	Size  uint64        `json:"size"`
	Roots int           `json:"roots,omitempty"`
	Ptrs  []graph.ObjID `json:"ptrs"`
}

// Write encodes g as a JSON dump, objects in graph order
func Write(w io.Writer, g graph.Graph) error {
	dump := jsonDump{
		Objects: make([]jsonObject, 0, g.NumObjects()),
		Roots:   g.GetRoots().IDs,
	}
	if dump.Roots == nil {
		dump.Roots = []graph.ObjID{}
	}
	g.ForEachObject(func(obj *graph.Object) {
		ptrs := obj.Ptrs
		if ptrs == nil {
			ptrs = []graph.ObjID{}
		}
		dump.Objects = append(dump.Objects, jsonObject{
			ID:    obj.ID,
			Type:  obj.Type,
			Size:  obj.Size,
			Roots: obj.RootCount,
			Ptrs:  ptrs,
		})
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(&dump), "encoding dump")
}

// CanParse looks for an "objects" key in the dump's prefix
func (p *JSON) CanParse(r io.Reader) bool {
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false
	}
	if n == 0 {
		return false
	}

	// The prefix may be truncated, so scan tokens instead of decoding it whole.
	iter := jsoniter.ParseBytes(json, buf[:n])
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return false
	}
	found := false
	for key := iter.ReadObject(); key != "" && iter.Error == nil; key = iter.ReadObject() {
		if key == "objects" {
			found = iter.WhatIsNext() == jsoniter.ArrayValue
			break
		}
		iter.Skip()
	}
	return found
}

// Parse reads a JSON dump into a graph
func (p *JSON) Parse(r io.Reader) (graph.Graph, error) {
	var dump jsonDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}

	g := graph.NewMemGraph()
	for i, obj := range dump.Objects {
		if obj.ID == 0 {
			return nil, errors.Errorf("object at index %d missing ID", i)
		}
		if obj.Roots < 0 {
			return nil, errors.Errorf("object %d has negative root count %d", obj.ID, obj.Roots)
		}
		ptrs := obj.Ptrs
		if ptrs == nil {
			ptrs = []graph.ObjID{}
		}
		g.AddObject(&graph.Object{
			ID:        obj.ID,
			Type:      obj.Type,
			Size:      obj.Size,
			RootCount: obj.Roots,
			Ptrs:      ptrs,
		})
	}

	roots := dump.Roots
	if roots == nil {
		roots = []graph.ObjID{}
	}
	g.SetRoots(graph.Roots{IDs: roots})

	return g, nil
}

func init() {
	Register(&JSON{})
}
