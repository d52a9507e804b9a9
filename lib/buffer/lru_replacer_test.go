package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUReplacer(t *testing.T) {
	lruReplacer := NewLRUReplacer(5)

	t.Run("test lru replacer", func(t *testing.T) {
		lruReplacer.Touch(1)
		lruReplacer.Touch(2)
		lruReplacer.Touch(3)
		lruReplacer.Touch(4)
		lruReplacer.Touch(5)
		assert.Equal(t, 5, lruReplacer.Size())
		assert.Equal(t, []int{5, 4, 3, 2, 1}, lruReplacer.Order())

		var evictedFrameID int
		lruReplacer.Victim(&evictedFrameID)
		assert.Equal(t, 1, evictedFrameID)
		lruReplacer.Victim(&evictedFrameID)
		assert.Equal(t, 2, evictedFrameID)

		lruReplacer.Touch(3) // 3 jadi most recently used, yang di evict selanjutnya adalah 4
		lruReplacer.Victim(&evictedFrameID)
		assert.Equal(t, 4, evictedFrameID)

		lruReplacer.Remove(5)
		lruReplacer.Touch(7)
		lruReplacer.Touch(8)

		lruReplacer.Victim(&evictedFrameID)
		assert.Equal(t, 3, evictedFrameID)
		lruReplacer.Victim(&evictedFrameID)
		assert.Equal(t, 7, evictedFrameID)
		lruReplacer.Victim(&evictedFrameID)
		assert.Equal(t, 8, evictedFrameID)

		assert.False(t, lruReplacer.Victim(&evictedFrameID))
		assert.Equal(t, 0, lruReplacer.Size())
	})

	t.Run("touch keeps exactly one position per frame", func(t *testing.T) {
		lru := NewLRUReplacer(3)
		lru.Touch(0)
		lru.Touch(1)
		lru.Touch(0)
		lru.Touch(0)
		assert.Equal(t, 2, lru.Size())
		assert.Equal(t, []int{0, 1}, lru.Order())
	})
}

func TestLRUReplacerRestore(t *testing.T) {
	lru := NewLRUReplacer(3)
	lru.Touch(0)
	lru.Touch(1)
	lru.Touch(2)

	var victim int
	assert.True(t, lru.Victim(&victim))
	assert.Equal(t, 0, victim)

	lru.Restore(victim)
	assert.Equal(t, []int{2, 1, 0}, lru.Order())

	assert.True(t, lru.Victim(&victim))
	assert.Equal(t, 0, victim)
}
