package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanInputStripsZeroWidthChars(t *testing.T) {
	in := "Hari\u200bSeldon \u200cand\u200d Gaal\ufeff Dornick\u2060"
	assert.Equal(t, "HariSeldon and Gaal Dornick", cleanInput(in))
}

func TestCleanInputKeepsWhitespaceControls(t *testing.T) {
	in := "line one\nline two\ttabbed\r\n"
	assert.Equal(t, in, cleanInput(in))

	// Other control characters are dropped.
	assert.Equal(t, "ab", cleanInput("a\x00\x07b"))
}
