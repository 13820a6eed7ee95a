package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatcher(t *testing.T) {
	t.Run("signals ready at batch size", func(t *testing.T) {
		b := NewBatcher[int](3)

		assert.False(t, b.Add(1))
		assert.False(t, b.Add(2))
		assert.True(t, b.Add(3))
		assert.Equal(t, []int{1, 2, 3}, b.TakeBatch())
		assert.Equal(t, 0, b.Len())
	})

	t.Run("120 records with size 50", func(t *testing.T) {
		b := NewBatcher[int](50)
		var sizes []int
		for i := 0; i < 120; i++ {
			if b.Add(i) {
				sizes = append(sizes, len(b.TakeBatch()))
			}
		}
		sizes = append(sizes, len(b.TakeBatch()))

		assert.Equal(t, []int{50, 50, 20}, sizes)
	})

	t.Run("taken batch is not reused", func(t *testing.T) {
		b := NewBatcher[int](2)
		b.Add(1)
		b.Add(2)
		first := b.TakeBatch()
		b.Add(3)

		assert.Equal(t, []int{1, 2}, first)
	})

	t.Run("empty take", func(t *testing.T) {
		b := NewBatcher[int](2)
		assert.Empty(t, b.TakeBatch())
	})
}
