package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/types"
)

func TestSimpleTokenCounter(t *testing.T) {
	counter := llm.NewSimpleTokenCounter()

	assert.Equal(t, 0, counter.CountTokens(""))
	assert.Equal(t, 1, counter.CountTokens("hello"))

	// Ten words at the 1.3x multiplier.
	assert.Equal(t, 13, counter.CountTokens("one two three four five six seven eight nine ten"))

	// Punctuation splits but does not count.
	assert.Equal(t, 2, counter.CountTokens("hello, world!"))
}

func TestEstimateTokensFromMessages(t *testing.T) {
	messages := []types.Message{
		{Role: "system", Content: "hello"},
		{Role: "user", Content: "hello world"},
	}

	// 1 + 4 overhead, then 2 + 4 overhead.
	assert.Equal(t, 11, llm.EstimateTokensFromMessages(messages))
}
