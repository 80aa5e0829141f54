package middleware

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorProducesValidUUIDs(t *testing.T) {
	g := NewIDGenerator(4)

	id := g.GetID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	id = g.GetIDNonBlocking()
	_, err = uuid.Parse(id)
	require.NoError(t, err)
}

func TestIDGeneratorUniqueness(t *testing.T) {
	g := NewIDGenerator(8)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.GetIDNonBlocking()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDGeneratorNonBlockingUnderDrain(t *testing.T) {
	// A tiny buffer forces the non-blocking path to fall back to on-the-spot
	// generation once the buffer is drained faster than it refills.
	g := NewIDGenerator(1)

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = g.GetIDNonBlocking()
		}(i)
	}
	wg.Wait()

	unique := make(map[string]bool, len(ids))
	for _, id := range ids {
		require.NotEmpty(t, id)
		unique[id] = true
	}
	assert.Len(t, unique, len(ids))
}

func TestIDGeneratorClampsBufferSize(t *testing.T) {
	g := NewIDGenerator(0)
	assert.NotEmpty(t, g.GetID())
}
