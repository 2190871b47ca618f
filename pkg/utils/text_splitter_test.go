package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	t.Run("short text stays in one chunk", func(t *testing.T) {
		chunks := SplitText("short", 100, 10)
		assert.Equal(t, []string{"short"}, chunks)
	})

	t.Run("long text is chunked with overlap", func(t *testing.T) {
		text := strings.Repeat("a", 250)
		chunks := SplitText(text, 100, 20)

		assert.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 100)
		// step is chunkSize - overlap = 80
		assert.Len(t, chunks[1], 100)
		assert.Len(t, chunks[2], 250-2*80)
	})

	t.Run("adjacent chunks share the overlap window", func(t *testing.T) {
		text := "abcdefghijklmnopqrstuvwxyz"
		chunks := SplitText(text, 10, 4)

		assert.Equal(t, "abcdefghij", chunks[0])
		assert.Equal(t, "ghijklmnop", chunks[1])
		assert.True(t, strings.HasSuffix(chunks[0], chunks[1][:4]))
	})

	t.Run("overlap larger than chunk size falls back to full step", func(t *testing.T) {
		text := strings.Repeat("b", 30)
		chunks := SplitText(text, 10, 15)

		assert.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.Len(t, c, 10)
		}
	})

	t.Run("unicode is split on rune boundaries", func(t *testing.T) {
		text := strings.Repeat("é", 25)
		chunks := SplitText(text, 10, 0)

		assert.Len(t, chunks, 3)
		assert.Equal(t, 10, len([]rune(chunks[0])))
		assert.Equal(t, 5, len([]rune(chunks[2])))
	})
}
