// ABOUTME: Tests for reachability and reverse edges on snapshot graphs
// ABOUTME: Covers cycles, dangling pointers and the garbage prediction

package graph

import (
	"reflect"
	"testing"
)

func TestReachable(t *testing.T) {
	tests := []struct {
		name    string
		objects []*Object
		roots   []ObjID
		garbage []ObjID
	}{
		{
			name: "chain",
			objects: []*Object{
				{ID: 1, Ptrs: []ObjID{2}},
				{ID: 2, Ptrs: []ObjID{3}},
				{ID: 3},
			},
			roots:   []ObjID{1},
			garbage: []ObjID{},
		},
		{
			name: "unreferenced two-cycle",
			objects: []*Object{
				{ID: 1},
				{ID: 2, Ptrs: []ObjID{3}},
				{ID: 3, Ptrs: []ObjID{2}},
			},
			roots:   []ObjID{1},
			garbage: []ObjID{2, 3},
		},
		{
			name: "rooted cycle",
			objects: []*Object{
				{ID: 1, Ptrs: []ObjID{2}},
				{ID: 2, Ptrs: []ObjID{1}},
			},
			roots:   []ObjID{1},
			garbage: []ObjID{},
		},
		{
			name: "self loop without roots",
			objects: []*Object{
				{ID: 4, Ptrs: []ObjID{4}},
			},
			roots:   []ObjID{},
			garbage: []ObjID{4},
		},
		{
			name: "dangling pointer ignored",
			objects: []*Object{
				{ID: 1, Ptrs: []ObjID{99}},
				{ID: 2},
			},
			roots:   []ObjID{1},
			garbage: []ObjID{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMemGraph()
			for _, obj := range tt.objects {
				g.AddObject(obj)
			}
			g.SetRoots(Roots{IDs: tt.roots})

			got := Unreachable(g)
			if !reflect.DeepEqual(got, tt.garbage) {
				t.Errorf("Unreachable() = %v, want %v", got, tt.garbage)
			}

			live := Reachable(g)
			if live.Cardinality()+len(got) != len(tt.objects) {
				t.Errorf("reachable %d + unreachable %d != %d objects", live.Cardinality(), len(got), len(tt.objects))
			}
			if live.Contains(99) {
				t.Error("dangling pointer target should not be reachable")
			}
		})
	}
}

func TestBuildReverseEdges(t *testing.T) {
	g := NewMemGraph()
	g.AddObject(&Object{ID: 1, Ptrs: []ObjID{3, 3}})
	g.AddObject(&Object{ID: 2, Ptrs: []ObjID{3}})
	g.AddObject(&Object{ID: 3})

	reverse := BuildReverseEdges(g)
	if want := []ObjID{1, 2}; !reflect.DeepEqual(reverse[3], want) {
		t.Errorf("referrers of 3 = %v, want %v", reverse[3], want)
	}
	if len(reverse[1]) != 0 {
		t.Errorf("object 1 has no referrers, got %v", reverse[1])
	}
}
