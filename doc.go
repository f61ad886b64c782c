// Package dramatis provides LLM-backed character and relationship analysis
// for narrative text.
//
// Dramatis sends book-length text to a configurable LLM backend in
// word-bounded chunks, parses the structured JSON the model returns, and
// merges the per-chunk findings into a single deduplicated cast with roles,
// aliases, confidence scores, and pairwise relationships.
//
// # Basic Usage
//
// Create an LLM client for the provider you want, then wrap it in an
// analyzer:
//
//	cfg := llm.NewLLMConfig().
//		WithProvider(llm.ProviderAnthropic).
//		WithModel("claude-sonnet-4-5")
//
//	client, err := llm.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	analyzer, err := dramatis.NewAnalyzer(client, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Extracting Characters
//
// ExtractCharacters chunks the text, extracts a cast per chunk, and merges:
//
//	result, err := analyzer.ExtractCharacters(ctx, text)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, c := range result.Characters {
//		fmt.Printf("%s (%s, %.2f)\n", c.Name, c.Role, c.Confidence)
//	}
//
// # Analyzing Relationships
//
// AnalyzeRelationships scores pairwise relationships between known
// characters:
//
//	rels, err := analyzer.AnalyzeRelationships(ctx, text, result.Characters)
//
// Per-chunk failures are recorded in the result's Failures field rather than
// aborting the run; only configuration and authentication errors are fatal.
package dramatis
