package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolGet(t *testing.T) {
	t.Parallel()

	p := NewPool()
	a := p.Get(16)
	b := p.Get(16)
	assert.Len(t, a, 16)
	assert.Len(t, b, 16)

	// consecutive buffers come from disjoint arena regions
	a[0] = 1
	assert.Zero(t, b[0])
}

func TestPoolWraps(t *testing.T) {
	t.Parallel()

	p := NewPool()
	p.Get(maxpoolsize - 8)
	c := p.Get(64) // does not fit the remainder, arena restarts
	assert.Len(t, c, 64)
}
