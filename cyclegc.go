// ABOUTME: Root cyclegc package providing version information and package documentation
// ABOUTME: The collector lives in gc, heap analysis in graph and heapdump

// Package cyclegc is a cycle-aware, rooting-and-tracing collector for Go
// values that need deterministic finalization. Values are allocated on an
// explicit gc.Heap, shared through gc.Gc handles, mutated through gc.Cell,
// and reclaimed (including whole unreferenced cycles) by Heap.Collect.
// Heap snapshots can be dumped and analysed with the graph and heapdump
// packages or the gcdump command.
package cyclegc

// Version is the semantic version of the cyclegc module
const Version = "0.1.0-dev"
