package llm

import (
	"strings"
	"unicode"

	"github.com/storygraph/dramatis/pkg/types"
)

// TokenCounter provides token counting functionality.
type TokenCounter interface {
	CountTokens(text string) int
}

// SimpleTokenCounter provides a basic token counting implementation. It is a
// rough word-based approximation used only for result metadata; providers
// that report real usage take precedence.
type SimpleTokenCounter struct{}

// NewSimpleTokenCounter creates a new simple token counter.
func NewSimpleTokenCounter() *SimpleTokenCounter {
	return &SimpleTokenCounter{}
}

// CountTokens estimates token count using a simple word-based approach.
func (s *SimpleTokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	tokenCount := 0
	for _, word := range words {
		if strings.TrimSpace(word) != "" {
			tokenCount++
		}
	}

	// Tokens run ~1.3x words for English once special tokens are counted.
	return int(float64(tokenCount) * 1.3)
}

// GetTokenCount is a convenience function that uses the simple token counter.
func GetTokenCount(text string) int {
	counter := NewSimpleTokenCounter()
	return counter.CountTokens(text)
}

// EstimateTokensFromMessages estimates tokens for a slice of messages.
func EstimateTokensFromMessages(messages []types.Message) int {
	totalTokens := 0
	for _, msg := range messages {
		totalTokens += GetTokenCount(msg.Content)
		totalTokens += 4 // overhead for role and formatting
	}
	return totalTokens
}
