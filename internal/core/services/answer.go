package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
	"github.com/custodia-labs/unisearch/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// User-facing answers for the outcomes that do not come from the model.
const (
	NoDataAnswer = "No documents loaded yet. Add university prospectuses with " +
		"'unisearch add <file>' and ask again."
	NoMatchAnswer = "I couldn't find information matching your question in the loaded documents. " +
		"Try rephrasing, or ask about fees, admissions, programmes or accommodation."
	ModelErrorAnswer = "Sorry, I couldn't generate an answer right now. Please try again in a moment."

	// PlaceholderExcerpt stands in for an excerpt when no document matched.
	PlaceholderExcerpt = "No relevant content found for this query."
)

// AnswerService answers questions from the document store with a completion model.
type AnswerService struct {
	store     driven.DocumentStore
	llm       driven.LLMService
	prompts   driven.PromptStore
	scorer    *Scorer
	assembler *ContextAssembler

	topK          int
	timeout       time.Duration
	maxTokens     int
	temperature   float64
	excerptLength int
}

// NewAnswerService creates a new answer service.
// The llm and prompts parameters are optional (can be nil): without a model every
// matched question resolves to a not_configured model error, and without a prompt
// store the built-in prompts are used.
func NewAnswerService(
	store driven.DocumentStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	settings domain.AppSettings,
) *AnswerService {
	r := settings.Retrieval
	return &AnswerService{
		store:         store,
		llm:           llm,
		prompts:       prompts,
		scorer:        NewScorer(r.Weights()),
		assembler:     NewContextAssembler(r.ContextBudget, r.GeneralInfoLength),
		topK:          r.TopK,
		timeout:       settings.Answer.Timeout,
		maxTokens:     settings.Answer.MaxTokens,
		temperature:   settings.Answer.Temperature,
		excerptLength: r.ExcerptLength,
	}
}

// Search returns the ranked documents for a query without calling the model.
func (s *AnswerService) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.ScoredDocument {
	docs := s.store.List(ctx)
	scored := s.scorer.Score(query, docs, s.limit(opts))
	logger.Debug("Scored %d of %d documents for %q", len(scored), len(docs), query)
	return scored
}

// SearchWithAI answers a question. Every outcome is a well-formed result.
func (s *AnswerService) SearchWithAI(ctx context.Context, query string, opts domain.SearchOptions) domain.AnswerResult {
	queryID := uuid.NewString()
	logger.Section("Answer")
	logger.Debug("Query %s: %q", queryID, query)

	result := s.answer(ctx, query, opts)
	result.QueryID = queryID

	logger.Debug("Query %s finished with outcome %s", queryID, result.Outcome)
	return result
}

func (s *AnswerService) answer(ctx context.Context, query string, opts domain.SearchOptions) domain.AnswerResult {
	total := s.store.Size(ctx)
	if total == 0 {
		logger.Debug("Store is empty")
		return domain.NoData(NoDataAnswer)
	}

	docs := s.store.List(ctx)
	scored := s.scorer.Score(query, docs, s.limit(opts))
	logger.Debug("Scored %d of %d documents", len(scored), total)

	if len(scored) == 0 {
		sources := make([]domain.Citation, 0, len(docs))
		for _, doc := range docs {
			sources = append(sources, domain.Citation{
				SourceName:  doc.SourceName,
				DisplayName: doc.DisplayName,
				Excerpt:     PlaceholderExcerpt,
			})
		}
		return domain.NoMatch(NoMatchAnswer, sources, total)
	}

	for i, sd := range scored {
		logger.Debug("  %d. %s (score %d)", i+1, sd.Document.ID, sd.Score)
	}

	contextText := s.assembler.Assemble(scored, query)
	logger.Debug("Assembled context: %d characters", len([]rune(contextText)))

	system, user := s.buildPrompts(query, contextText)
	logger.Debug("Prompt sizes: system=%d user=%d", len(system), len(user))

	text, err := s.complete(ctx, system, user)
	if err != nil {
		kind := ClassifyModelError(err)
		logger.Error("completion failed (%s): %v", kind, err)
		return domain.ModelError(ModelErrorAnswer, kind, err, total, len(scored))
	}

	sources := make([]domain.Citation, 0, len(scored))
	for _, sd := range scored {
		sources = append(sources, domain.Citation{
			SourceName:  sd.Document.SourceName,
			DisplayName: sd.Document.DisplayName,
			Excerpt:     RelevantExcerpt(sd.Document.Content, query, s.excerptLength),
		})
	}
	return domain.Answered(strings.TrimSpace(text), sources, total, len(scored))
}

// complete races the model call against the configured timeout.
func (s *AnswerService) complete(ctx context.Context, system, user string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: no completion model configured", domain.ErrLLMUnavailable)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type completion struct {
		text string
		err  error
	}
	done := make(chan completion, 1)
	start := time.Now()

	go func() {
		text, err := s.llm.Complete(ctx, system, user, driven.CompletionOptions{
			MaxTokens:   s.maxTokens,
			Temperature: s.temperature,
		})
		done <- completion{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("completion with %s: %w", s.llm.ModelName(), ctx.Err())
	case c := <-done:
		logger.Elapsed("Completion", start)
		if c.err != nil {
			return "", c.err
		}
		if strings.TrimSpace(c.text) == "" {
			return "", errors.New("completion model returned an empty answer")
		}
		return c.text, nil
	}
}

// buildPrompts loads the prompt templates, falling back to the built-in ones.
func (s *AnswerService) buildPrompts(query, contextText string) (system, user string) {
	system = s.loadPrompt(driven.PromptAnswerSystem, domain.DefaultAnswerSystemPrompt)
	userTemplate := s.loadPrompt(driven.PromptAnswerUser, domain.DefaultAnswerUserPrompt)
	if strings.Count(userTemplate, "%s") != 2 {
		logger.Warn("Prompt %s must contain two %%s placeholders, using default", driven.PromptAnswerUser)
		userTemplate = domain.DefaultAnswerUserPrompt
	}
	return system, fmt.Sprintf(userTemplate, query, contextText)
}

func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	p, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Warn("Using default prompt %s: %v", name, err)
		return fallback
	}
	return p
}

func (s *AnswerService) limit(opts domain.SearchOptions) int {
	if opts.TopK > 0 {
		return opts.TopK
	}
	return s.topK
}

// ClassifyModelError maps a completion failure to an error kind by type and message.
func ClassifyModelError(err error) domain.ErrorKind {
	if err == nil {
		return domain.ErrorKindNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrorKindTimeout
	}
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return domain.ErrorKindNotConfigured
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return domain.ErrorKindTimeout
	case containsAny(msg, "quota", "rate limit", "429", "insufficient"):
		return domain.ErrorKindQuota
	case containsAny(msg, "connection refused", "no such host", "network", "dial", "eof", "unreachable"):
		return domain.ErrorKindConnectivity
	default:
		return domain.ErrorKindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
