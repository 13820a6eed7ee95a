package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_WrapsAround(t *testing.T) {
	r := newRing[int](3)

	r.push(1)
	r.push(2)
	r.push(3)
	assert.True(t, r.full())

	assert.Equal(t, 1, r.pop())
	r.push(4)

	assert.Equal(t, 2, r.pop())
	assert.Equal(t, 3, r.pop())
	assert.Equal(t, 4, r.pop())
	assert.True(t, r.empty())
	assert.Equal(t, 3, r.cap())
}
