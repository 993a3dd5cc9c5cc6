// ABOUTME: Tests for the JSON dump parser and encoder
// ABOUTME: Validates parsing, prefix sniffing, root counts and error handling

package heapdump

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/prateek/cyclegc/graph"
)

func TestJSONParse(t *testing.T) {
	jsonData := `{
		"objects": [
			{"id": 1, "type": "root", "size": 100, "ptrs": [2]},
			{"id": 2, "type": "child", "size": 50, "ptrs": []}
		],
		"roots": [1]
	}`

	parser := &JSON{}
	r := strings.NewReader(jsonData)

	g, err := parser.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if g.NumObjects() != 2 {
		t.Errorf("Expected 2 objects, got %d", g.NumObjects())
	}

	obj1 := g.GetObject(1)
	if obj1 == nil {
		t.Fatal("Object 1 not found")
	}
	if obj1.Type != "root" {
		t.Errorf("Expected type 'root', got %s", obj1.Type)
	}
	if obj1.Size != 100 {
		t.Errorf("Expected size 100, got %d", obj1.Size)
	}
	if len(obj1.Ptrs) != 1 || obj1.Ptrs[0] != 2 {
		t.Errorf("Expected ptrs [2], got %v", obj1.Ptrs)
	}

	roots := g.GetRoots()
	if len(roots.IDs) != 1 || roots.IDs[0] != 1 {
		t.Errorf("Expected roots [1], got %v", roots.IDs)
	}
}

func TestJSONCanParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "Valid JSON object",
			content: `{"objects": [], "roots": []}`,
			want:    true,
		},
		{
			name:    "JSON with objects key",
			content: `{"objects": [{"id": 1}]}`,
			want:    true,
		},
		{
			name:    "Non-JSON",
			content: `not json at all`,
			want:    false,
		},
		{
			name:    "JSON without objects key",
			content: `{"data": []}`,
			want:    false,
		},
		{
			name:    "Empty",
			content: ``,
			want:    false,
		},
	}

	parser := &JSON{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			got := parser.CanParse(r)
			if got != tt.want {
				t.Errorf("CanParse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "Invalid JSON syntax",
			content: `{"objects": [}`,
		},
		{
			name:    "Missing required fields",
			content: `{"objects": [{"type": "test"}]}`, // missing id
		},
		{
			name:    "Wrong type for objects",
			content: `{"objects": "not an array", "roots": []}`,
		},
	}

	parser := &JSON{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			_, err := parser.Parse(r)
			if err == nil {
				t.Error("Expected error for malformed JSON")
			}
		})
	}
}

func TestJSONWithComplexGraph(t *testing.T) {
	// Test with cycles and multiple roots
	jsonData := `{
		"objects": [
			{"id": 1, "type": "root1", "size": 10, "ptrs": [2, 3]},
			{"id": 2, "type": "node", "size": 20, "ptrs": [3]},
			{"id": 3, "type": "node", "size": 30, "ptrs": [1]},
			{"id": 4, "type": "root2", "size": 40, "ptrs": [2]}
		],
		"roots": [1, 4]
	}`

	parser := &JSON{}
	r := strings.NewReader(jsonData)

	g, err := parser.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if g.NumObjects() != 4 {
		t.Errorf("Expected 4 objects, got %d", g.NumObjects())
	}

	roots := g.GetRoots()
	if len(roots.IDs) != 2 {
		t.Errorf("Expected 2 roots, got %d", len(roots.IDs))
	}
}
func TestJSONRootCounts(t *testing.T) {
	jsonData := `{
		"objects": [
			{"id": 1, "type": "*main.node", "size": 48, "roots": 2, "ptrs": [2]},
			{"id": 2, "type": "*main.node", "size": 48, "ptrs": [1]}
		],
		"roots": [1]
	}`

	g, err := (&JSON{}).Parse(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := g.GetObject(1).RootCount; got != 2 {
		t.Errorf("Expected root count 2, got %d", got)
	}
	if got := g.GetObject(2).RootCount; got != 0 {
		t.Errorf("Expected omitted root count to be 0, got %d", got)
	}

	_, err = (&JSON{}).Parse(strings.NewReader(`{"objects": [{"id": 1, "roots": -1}]}`))
	if err == nil {
		t.Error("Expected error for negative root count")
	}
}

func TestJSONCanParseTruncatedPrefix(t *testing.T) {
	// Open only shows parsers the first few KB of a dump
	content := `{"objects": [{"id": 1, "type": "` + strings.Repeat("x", 8192) + `"}]}`
	if !(&JSON{}).CanParse(strings.NewReader(content[:sniffSize])) {
		t.Error("CanParse() should accept a truncated dump prefix")
	}
}

func TestWriteThenParse(t *testing.T) {
	g := graph.NewMemGraph()
	g.AddObject(&graph.Object{ID: 3, Type: "*main.node", Size: 24, RootCount: 1, Ptrs: []graph.ObjID{5}})
	g.AddObject(&graph.Object{ID: 5, Type: "*main.node", Size: 24, Ptrs: []graph.ObjID{3}})
	g.AddObject(&graph.Object{ID: 8, Type: "gc.Leaf[int]", Size: 8})
	g.SetRoots(graph.Roots{IDs: []graph.ObjID{3}})

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := (&JSON{}).Parse(&buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var order []graph.ObjID
	got.ForEachObject(func(obj *graph.Object) {
		order = append(order, obj.ID)
		want := g.GetObject(obj.ID)
		if !reflect.DeepEqual(obj, want) {
			t.Errorf("object %d = %+v, want %+v", obj.ID, obj, want)
		}
	})
	if !reflect.DeepEqual(order, []graph.ObjID{3, 5, 8}) {
		t.Errorf("object order = %v, want [3 5 8]", order)
	}
	if !reflect.DeepEqual(got.GetRoots(), g.GetRoots()) {
		t.Errorf("roots = %v, want %v", got.GetRoots(), g.GetRoots())
	}
}
