// Package chunker splits narrative text into word-bounded chunks sized for a
// single model call.
package chunker

import "strings"

// DefaultMaxWords keeps a chunk comfortably inside typical context windows
// once the prompt scaffolding is added.
const DefaultMaxWords = 2500

// Split breaks text on whitespace into chunks of at most maxWords words.
// Words are never split; chunks do not overlap. A maxWords of zero or less
// uses DefaultMaxWords. Empty or whitespace-only text yields no chunks.
func Split(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= maxWords {
		return []string{strings.Join(words, " ")}
	}

	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// WordCount reports the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
