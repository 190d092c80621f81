package sample

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitByRunes(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, splitByRunes("   ", 800, 80))
	})

	t.Run("short text single chunk", func(t *testing.T) {
		chunks := splitByRunes("hello world", 800, 80)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("long text overlaps", func(t *testing.T) {
		text := strings.Repeat("a", 2000)
		chunks := splitByRunes(text, 800, 80)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 800)
		assert.Len(t, chunks[1], 800)
		// 第三块从 1440 开始，覆盖到末尾
		assert.Len(t, chunks[2], 560)
	})

	t.Run("multibyte runes not split mid-character", func(t *testing.T) {
		text := strings.Repeat("秋", 1000)
		chunks := splitByRunes(text, 800, 80)
		require.Len(t, chunks, 2)
		assert.Equal(t, 800, len([]rune(chunks[0])))
		for _, c := range chunks {
			assert.True(t, strings.HasPrefix(c, "秋"))
		}
	})

	t.Run("overlap larger than size falls back to full step", func(t *testing.T) {
		text := strings.Repeat("b", 100)
		chunks := splitByRunes(text, 10, 20)
		require.Len(t, chunks, 10)
	})
}
