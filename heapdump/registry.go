// ABOUTME: Registry for heap dump parsers
// ABOUTME: Sniffs a dump's prefix and hands the stream to the first parser that accepts it

package heapdump

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/prateek/cyclegc/graph"
)

// sniffSize is how much of a dump parsers get to look at in CanParse
const sniffSize = 4096

var (
	// ErrNoParser is returned when no parser can handle the dump format
	ErrNoParser = errors.New("no parser found for dump format")
)

type parserRegistry struct {
	mu      sync.RWMutex
	parsers []Parser
}

var registry = &parserRegistry{}

// Register adds a parser. Parsers are tried in registration order.
func Register(p Parser) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parsers = append(registry.parsers, p)
}

// Open reads a dump with the first registered parser that recognises it
func Open(r io.Reader) (graph.Graph, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	prefix, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrap(err, "reading dump header")
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, p := range registry.parsers {
		if !p.CanParse(bytes.NewReader(prefix)) {
			continue
		}
		g, err := p.Parse(br)
		if err != nil {
			return nil, errors.Wrap(err, "parsing dump")
		}
		return g, nil
	}
	return nil, ErrNoParser
}
