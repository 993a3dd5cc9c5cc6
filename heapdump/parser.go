// ABOUTME: Parser interface for heap snapshot dump formats
// ABOUTME: Defines the contract for pluggable dump readers

package heapdump

import (
	"io"

	"github.com/prateek/cyclegc/graph"
)

// Parser reads one dump format into a snapshot graph
type Parser interface {
	// CanParse inspects a prefix of the dump. It must not assume it sees the
	// whole stream.
	CanParse(r io.Reader) bool

	// Parse reads the whole dump from the beginning
	Parse(r io.Reader) (graph.Graph, error)
}
