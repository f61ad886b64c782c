package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "w%d", i)
	}
	return b.String()
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split("", 100))
	assert.Nil(t, Split("   \n\t  ", 100))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	chunks := Split("Hari Seldon arrived on Trantor.", 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hari Seldon arrived on Trantor.", chunks[0])
}

func TestSplitBoundaries(t *testing.T) {
	// Exactly at the limit stays whole; one more word spills over.
	assert.Len(t, Split(words(100), 100), 1)

	chunks := Split(words(101), 100)
	require.Len(t, chunks, 2)
	assert.Equal(t, 100, WordCount(chunks[0]))
	assert.Equal(t, 1, WordCount(chunks[1]))
}

func TestSplitRoundTrip(t *testing.T) {
	// Joining the chunks reproduces the original word sequence with no
	// duplication and no loss.
	text := words(357)
	chunks := Split(text, 50)
	require.Len(t, chunks, 8)
	assert.Equal(t, text, strings.Join(chunks, " "))
}

func TestSplitNeverSplitsWords(t *testing.T) {
	text := strings.Repeat("psychohistory ", 30)
	for _, chunk := range Split(text, 7) {
		for _, w := range strings.Fields(chunk) {
			assert.Equal(t, "psychohistory", w)
		}
	}
}

func TestSplitDefaultMaxWords(t *testing.T) {
	chunks := Split(words(DefaultMaxWords+1), 0)
	assert.Len(t, chunks, 2)
}
