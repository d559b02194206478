package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamer_StartsAtZero(t *testing.T) {
	n := NewNamer()
	assert.Equal(t, 0, n.Count())
	assert.Equal(t, "t0", n.NextName())
	assert.Equal(t, "t1", n.NextName())
	assert.Equal(t, 2, n.Count())
}

func TestNamer_Unique(t *testing.T) {
	n := NewNamer()
	const iterations = 1000

	seen := make(map[string]bool)
	for i := 0; i < iterations; i++ {
		name := n.NextName()
		assert.False(t, seen[name], "name %s generated twice", name)
		seen[name] = true
	}
	assert.Len(t, seen, iterations)
}
