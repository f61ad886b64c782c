package dramatis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/storygraph/dramatis/pkg/chunker"
	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/parser"
	"github.com/storygraph/dramatis/pkg/prompts"
	"github.com/storygraph/dramatis/pkg/types"
)

var (
	// ErrEmptyText is returned when the input text contains no words.
	ErrEmptyText = errors.New("text is empty")
	// ErrNoCharacters is returned when relationship analysis is requested
	// without any known characters.
	ErrNoCharacters = errors.New("no characters provided")
)

// Config holds configuration for the Analyzer.
type Config struct {
	// MaxChunkWords bounds the size of each chunk sent to the model.
	// Zero uses chunker.DefaultMaxWords.
	MaxChunkWords int

	// Parallelism bounds the number of chunks in flight at once.
	// Zero or less processes one chunk at a time.
	Parallelism int
}

// NewDefaultConfig returns a Config with conservative defaults.
func NewDefaultConfig() *Config {
	return &Config{
		MaxChunkWords: chunker.DefaultMaxWords,
		Parallelism:   1,
	}
}

// Analyzer is the main implementation of the Dramatis interface. It chunks
// input text, prompts the configured LLM client per chunk, parses the JSON
// responses, and merges the per-chunk findings.
type Analyzer struct {
	llm    llm.Client
	config *Config
	logger *slog.Logger
}

// NewAnalyzer creates a new Analyzer backed by the given LLM client.
// A nil config or logger falls back to defaults.
func NewAnalyzer(client llm.Client, config *Config, logger *slog.Logger) (*Analyzer, error) {
	if client == nil {
		return nil, llm.NewConfigurationError("llm client is required")
	}
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		llm:    client,
		config: config,
		logger: logger,
	}, nil
}

// Close releases the underlying LLM client.
func (a *Analyzer) Close() error {
	return a.llm.Close()
}

// chunkOutcome carries a single chunk's parsed payload plus token usage.
type chunkOutcome[T any] struct {
	payload T
	model   string
	tokens  int
}

// ExtractCharacters extracts the cast of characters from text. The text is
// split into word-bounded chunks, each chunk is analyzed independently, and
// the per-chunk casts are merged by name and alias overlap. Chunks whose
// analysis fails are recorded in the result's Failures field; the call only
// returns an error when the failure is fatal or no chunk succeeded.
func (a *Analyzer) ExtractCharacters(ctx context.Context, text string) (*types.ExtractionResult, error) {
	chunks := chunker.Split(text, a.config.MaxChunkWords)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	a.logger.Info("extracting characters",
		"provider", a.llm.Provider(),
		"words", chunker.WordCount(text),
		"chunks", len(chunks),
	)

	outcomes, failures, err := runChunks(ctx, a.config.Parallelism, chunks,
		func(ctx context.Context, chunk string) (chunkOutcome[[]types.Character], error) {
			return a.extractChunk(ctx, chunk)
		})
	if err != nil {
		return nil, err
	}

	result := &types.ExtractionResult{
		Failures: failures,
		Metadata: a.metadata(len(chunks)),
	}
	perChunk := make([][]types.Character, 0, len(outcomes))
	for _, o := range outcomes {
		perChunk = append(perChunk, o.payload)
		result.Metadata.TotalTokens += o.tokens
		if result.Metadata.Model == "" {
			result.Metadata.Model = o.model
		}
	}
	result.Characters = MergeCharacters(perChunk...)

	if len(outcomes) == 0 && len(failures) > 0 {
		return result, fmt.Errorf("all %d chunks failed: %s", len(chunks), failures[len(failures)-1].Err)
	}

	a.logger.Info("character extraction complete",
		"characters", len(result.Characters),
		"failed_chunks", len(failures),
	)
	return result, nil
}

// AnalyzeRelationships scores pairwise relationships between the given
// characters across the text. Relationships whose endpoints are not among
// the characters' names or aliases are dropped. Partial failures follow the
// same policy as ExtractCharacters.
func (a *Analyzer) AnalyzeRelationships(ctx context.Context, text string, characters []types.Character) (*types.RelationshipResult, error) {
	if len(characters) == 0 {
		return nil, ErrNoCharacters
	}
	chunks := chunker.Split(text, a.config.MaxChunkWords)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	names := make([]string, 0, len(characters))
	known := make(map[string]struct{})
	for _, c := range characters {
		names = append(names, c.Name)
		for _, form := range c.SurfaceForms() {
			known[form] = struct{}{}
		}
	}
	sort.Strings(names)

	a.logger.Info("analyzing relationships",
		"provider", a.llm.Provider(),
		"characters", len(names),
		"chunks", len(chunks),
	)

	outcomes, failures, err := runChunks(ctx, a.config.Parallelism, chunks,
		func(ctx context.Context, chunk string) (chunkOutcome[[]types.Relationship], error) {
			return a.relationshipChunk(ctx, chunk, names, known)
		})
	if err != nil {
		return nil, err
	}

	result := &types.RelationshipResult{
		Failures: failures,
		Metadata: a.metadata(len(chunks)),
	}
	perChunk := make([][]types.Relationship, 0, len(outcomes))
	for _, o := range outcomes {
		perChunk = append(perChunk, o.payload)
		result.Metadata.TotalTokens += o.tokens
		if result.Metadata.Model == "" {
			result.Metadata.Model = o.model
		}
	}
	result.Relationships = MergeRelationships(perChunk...)

	if len(outcomes) == 0 && len(failures) > 0 {
		return result, fmt.Errorf("all %d chunks failed: %s", len(chunks), failures[len(failures)-1].Err)
	}
	return result, nil
}

// ExtractTraits builds a trait profile for one character. Each chunk that
// mentions the character contributes to the profile; list fields are
// deduplicated unions and scalar fields keep the first non-empty value.
func (a *Analyzer) ExtractTraits(ctx context.Context, text string, characterName string) (*types.TraitProfile, error) {
	characterName = strings.TrimSpace(characterName)
	if characterName == "" {
		return nil, llm.NewConfigurationError("character name is required")
	}
	chunks := chunker.Split(text, a.config.MaxChunkWords)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	// Only chunks that mention the character are worth a model call.
	needle := strings.ToLower(characterName)
	relevant := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.Contains(strings.ToLower(chunk), needle) {
			relevant = append(relevant, chunk)
		}
	}
	if len(relevant) == 0 {
		return nil, fmt.Errorf("character %q not mentioned in text", characterName)
	}

	outcomes, failures, err := runChunks(ctx, a.config.Parallelism, relevant,
		func(ctx context.Context, chunk string) (chunkOutcome[*types.TraitProfile], error) {
			return a.traitsChunk(ctx, chunk, characterName)
		})
	if err != nil {
		return nil, err
	}
	if len(outcomes) == 0 {
		if len(failures) > 0 {
			return nil, fmt.Errorf("all %d chunks failed: %s", len(relevant), failures[len(failures)-1].Err)
		}
		return nil, ErrEmptyText
	}

	profiles := make([]*types.TraitProfile, 0, len(outcomes))
	meta := a.metadata(len(relevant))
	for _, o := range outcomes {
		profiles = append(profiles, o.payload)
		meta.TotalTokens += o.tokens
		if meta.Model == "" {
			meta.Model = o.model
		}
	}
	profile := mergeTraitProfiles(profiles, characterName)
	profile.Metadata = meta
	return profile, nil
}

func (a *Analyzer) extractChunk(ctx context.Context, chunk string) (chunkOutcome[[]types.Character], error) {
	var out chunkOutcome[[]types.Character]
	messages := prompts.ExtractCharacters(chunk)

	model, tokens, err := a.chatWithParseRetry(ctx, messages, func(content string) error {
		characters, parseErr := parser.ParseCharacters(content, a.logger)
		if parseErr != nil {
			return parseErr
		}
		out.payload = characters
		return nil
	})
	out.model = model
	out.tokens = tokens
	return out, err
}

func (a *Analyzer) relationshipChunk(ctx context.Context, chunk string, names []string, known map[string]struct{}) (chunkOutcome[[]types.Relationship], error) {
	var out chunkOutcome[[]types.Relationship]
	messages := prompts.AnalyzeRelationships(chunk, names)

	model, tokens, err := a.chatWithParseRetry(ctx, messages, func(content string) error {
		relationships, parseErr := parser.ParseRelationships(content, known, a.logger)
		if parseErr != nil {
			return parseErr
		}
		out.payload = relationships
		return nil
	})
	out.model = model
	out.tokens = tokens
	return out, err
}

func (a *Analyzer) traitsChunk(ctx context.Context, chunk string, characterName string) (chunkOutcome[*types.TraitProfile], error) {
	var out chunkOutcome[*types.TraitProfile]
	messages := prompts.ExtractTraits(chunk, characterName)

	model, tokens, err := a.chatWithParseRetry(ctx, messages, func(content string) error {
		profile, parseErr := parser.ParseTraits(content, characterName)
		if parseErr != nil {
			return parseErr
		}
		out.payload = profile
		return nil
	})
	out.model = model
	out.tokens = tokens
	return out, err
}

// chatWithParseRetry sends messages to the model and hands the response to
// parse. When the response is malformed it retries exactly once at
// temperature zero; transport-level retries belong to llm.RetryClient, not
// here. It returns the model that answered and the token count consumed
// across both attempts.
func (a *Analyzer) chatWithParseRetry(ctx context.Context, messages []types.Message, parse func(content string) error) (string, int, error) {
	tokens := 0

	resp, err := a.llm.Chat(ctx, messages, nil)
	if err != nil {
		return "", tokens, err
	}
	tokens += responseTokens(messages, resp)

	parseErr := parse(resp.Content)
	if parseErr == nil {
		return resp.Model, tokens, nil
	}
	var malformed *parser.MalformedResponseError
	if !errors.As(parseErr, &malformed) {
		return resp.Model, tokens, parseErr
	}

	a.logger.Warn("malformed response, retrying at temperature zero",
		"provider", a.llm.Provider(),
		"error", parseErr,
	)

	zero := float32(0)
	resp, err = a.llm.Chat(ctx, messages, &llm.ChatOptions{Temperature: &zero})
	if err != nil {
		return "", tokens, err
	}
	tokens += responseTokens(messages, resp)

	if parseErr := parse(resp.Content); parseErr != nil {
		return resp.Model, tokens, parseErr
	}
	return resp.Model, tokens, nil
}

// runChunks processes chunks with at most parallelism in flight. Fatal
// errors abort the whole run; anything else becomes a ChunkError. Outcomes
// and failures are returned in chunk order.
func runChunks[T any](ctx context.Context, parallelism int, chunks []string, process func(ctx context.Context, chunk string) (chunkOutcome[T], error)) ([]chunkOutcome[T], []types.ChunkError, error) {
	type slot[U any] struct {
		outcome chunkOutcome[U]
		err     error
	}
	slots := make([]slot[T], len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	var mu sync.Mutex
	var fatal error
	for i, chunk := range chunks {
		g.Go(func() error {
			outcome, err := process(ctx, chunk)
			if err != nil && llm.IsFatal(err) {
				mu.Lock()
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
				return err
			}
			slots[i] = slot[T]{outcome: outcome, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if fatal != nil {
			return nil, nil, fatal
		}
		return nil, nil, err
	}

	outcomes := make([]chunkOutcome[T], 0, len(chunks))
	var failures []types.ChunkError
	for i, s := range slots {
		if s.err != nil {
			failures = append(failures, types.ChunkError{Chunk: i, Err: s.err.Error()})
			continue
		}
		outcomes = append(outcomes, s.outcome)
	}
	return outcomes, failures, nil
}

func (a *Analyzer) metadata(chunkCount int) *types.ExtractionMetadata {
	return &types.ExtractionMetadata{
		Provider:   string(a.llm.Provider()),
		ChunkCount: chunkCount,
	}
}

// responseTokens prefers usage reported by the provider and falls back to a
// word-based estimate over the prompt and response when none is available.
func responseTokens(messages []types.Message, resp *types.Response) int {
	if resp == nil {
		return 0
	}
	if resp.TokensUsed != nil {
		if resp.TokensUsed.TotalTokens > 0 {
			return resp.TokensUsed.TotalTokens
		}
		if sum := resp.TokensUsed.PromptTokens + resp.TokensUsed.CompletionTokens; sum > 0 {
			return sum
		}
	}
	return llm.EstimateTokensFromMessages(messages) + llm.GetTokenCount(resp.Content)
}
