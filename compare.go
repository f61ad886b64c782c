package dramatis

import (
	"sort"
	"strings"
)

// ComparisonResult measures the agreement between a traditional NER
// character list and an LLM-extracted one. Matching is case-insensitive.
type ComparisonResult struct {
	// Matched holds names found by both methods, in the extracted list's
	// casing.
	Matched []string `json:"matched"`

	// TraditionalOnly holds names only the traditional method found.
	TraditionalOnly []string `json:"traditional_only"`

	// ExtractedOnly holds names only the LLM found.
	ExtractedOnly []string `json:"extracted_only"`

	// Precision is matched over everything the LLM found.
	Precision float64 `json:"precision"`

	// Recall is matched over everything the traditional method found.
	Recall float64 `json:"recall"`

	// F1 is the harmonic mean of precision and recall.
	F1 float64 `json:"f1"`

	// Jaccard is matched over the union of both lists.
	Jaccard float64 `json:"jaccard"`
}

// Compare measures the overlap between two character name lists, treating
// the traditional list as the baseline. Duplicate and empty names are
// ignored; all output lists are sorted.
func (a *Analyzer) Compare(traditional, extracted []string) *ComparisonResult {
	return Compare(traditional, extracted)
}

// Compare is the pure function behind Analyzer.Compare.
func Compare(traditional, extracted []string) *ComparisonResult {
	base := dedupeNames(traditional)
	found := dedupeNames(extracted)

	result := &ComparisonResult{}
	for key, name := range found {
		if _, ok := base[key]; ok {
			result.Matched = append(result.Matched, name)
		} else {
			result.ExtractedOnly = append(result.ExtractedOnly, name)
		}
	}
	for key, name := range base {
		if _, ok := found[key]; !ok {
			result.TraditionalOnly = append(result.TraditionalOnly, name)
		}
	}
	sort.Strings(result.Matched)
	sort.Strings(result.TraditionalOnly)
	sort.Strings(result.ExtractedOnly)

	matched := float64(len(result.Matched))
	if len(found) > 0 {
		result.Precision = matched / float64(len(found))
	}
	if len(base) > 0 {
		result.Recall = matched / float64(len(base))
	}
	if result.Precision+result.Recall > 0 {
		result.F1 = 2 * result.Precision * result.Recall / (result.Precision + result.Recall)
	}
	if union := len(base) + len(found) - len(result.Matched); union > 0 {
		result.Jaccard = matched / float64(union)
	}
	return result
}

// dedupeNames maps lowercased names to the lexicographically smallest casing
// seen, dropping empties.
func dedupeNames(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if existing, ok := out[key]; !ok || n < existing {
			out[key] = n
		}
	}
	return out
}
