// Package middleware provides HTTP middleware components and request-scoped
// helpers for the dispatch framework.
package middleware

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator provides efficient generation of request IDs by precomputing
// them in a background goroutine. The channel acts as a buffer so request
// handling never waits on UUID generation.
type IDGenerator struct {
	idChan   chan string
	size     int
	initOnce sync.Once
}

// NewIDGenerator creates a new IDGenerator with the specified buffer size.
func NewIDGenerator(bufferSize int) *IDGenerator {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	g := &IDGenerator{
		idChan: make(chan string, bufferSize),
		size:   bufferSize,
	}
	g.init()
	return g
}

// init fills the channel and starts the background refiller.
func (g *IDGenerator) init() {
	g.initOnce.Do(func() {
		for i := 0; i < g.size; i++ {
			g.idChan <- uuid.New().String()
		}
		go func() {
			// Blocks while the channel is full, wakes when an ID is consumed.
			for {
				g.idChan <- uuid.New().String()
			}
		}()
	})
}

// GetID returns a precomputed UUID, blocking until one is available.
func (g *IDGenerator) GetID() string {
	return <-g.idChan
}

// GetIDNonBlocking returns a precomputed UUID if one is buffered, otherwise
// generates a new one on the spot. Requests are never delayed, even during
// traffic spikes that drain the buffer.
func (g *IDGenerator) GetIDNonBlocking() string {
	select {
	case id := <-g.idChan:
		return id
	default:
		return uuid.New().String()
	}
}
