package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docuchat/internal/domain"
	"docuchat/internal/llm"
	"docuchat/internal/parse"
	"docuchat/internal/session"
	"docuchat/internal/vectorstore"
)

// ChatOptions tunes the retrieval-augmented chat engine.
type ChatOptions struct {
	TopK               int
	HistoryLimit       int
	ConfidenceHigh     float64
	ConfidenceLow      float64
	SourcePreviewChars int
}

// DefaultChatOptions mirror the configuration defaults.
func DefaultChatOptions() ChatOptions {
	return ChatOptions{
		TopK:               5,
		HistoryLimit:       5,
		ConfidenceHigh:     0.8,
		ConfidenceLow:      0.3,
		SourcePreviewChars: 200,
	}
}

// ChatService answers questions over the indexed corpus, grounding
// each answer in retrieved chunks and a bounded per-session history.
type ChatService struct {
	provider llm.Provider
	store    vectorstore.Store
	sessions session.Store
	opts     ChatOptions
	logger   *zap.Logger
}

// NewChatService creates the chat engine.
func NewChatService(provider llm.Provider, store vectorstore.Store, sessions session.Store, opts ChatOptions, logger *zap.Logger) *ChatService {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 5
	}
	if opts.SourcePreviewChars <= 0 {
		opts.SourcePreviewChars = 200
	}
	return &ChatService{
		provider: provider,
		store:    store,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
	}
}

// Answer runs one chat turn. It never returns an error: any internal
// failure is absorbed into a fixed degraded result with confidence 0,
// empty sources and nothing appended to the session history.
func (s *ChatService) Answer(ctx context.Context, query, sessionID string) domain.ChatResult {
	sess := s.resolveSession(sessionID)

	result, err := s.answer(ctx, query, sess)
	if err != nil {
		s.logger.Error("chat turn failed", zap.String("session_id", sess.ID), zap.Error(err))
		return domain.ChatResult{
			Response:   degradedResponse,
			SessionID:  sess.ID,
			Sources:    []domain.Source{},
			Confidence: 0,
		}
	}
	return result
}

// answer is the fallible inner turn; Answer maps its errors to the
// degraded result at the boundary.
func (s *ChatService) answer(ctx context.Context, query string, sess *domain.Session) (domain.ChatResult, error) {
	hits, err := s.retrieve(ctx, query)
	if err != nil {
		return domain.ChatResult{}, fmt.Errorf("retrieval: %w", err)
	}

	contextText := s.renderContext(hits)
	historyText := s.renderBoundedHistory(sess)

	prompt := fmt.Sprintf(answerPrompt, contextText, historyText, query)
	response, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return domain.ChatResult{}, fmt.Errorf("generation: %w", err)
	}
	response = strings.TrimSpace(response)

	// User message first, assistant second; a failed turn writes
	// neither.
	if err := s.sessions.Append(sess.ID, domain.Message{Role: domain.RoleUser, Content: query}); err != nil {
		return domain.ChatResult{}, fmt.Errorf("append user message: %w", err)
	}
	if err := s.sessions.Append(sess.ID, domain.Message{Role: domain.RoleAssistant, Content: response}); err != nil {
		return domain.ChatResult{}, fmt.Errorf("append assistant message: %w", err)
	}

	confidence := s.opts.ConfidenceLow
	if len(hits) > 0 {
		confidence = s.opts.ConfidenceHigh
	}

	return domain.ChatResult{
		Response:   response,
		SessionID:  sess.ID,
		Sources:    s.renderSources(hits),
		Confidence: confidence,
	}, nil
}

// resolveSession returns the existing session or creates a fresh one
// when the id is absent or unknown.
func (s *ChatService) resolveSession(sessionID string) *domain.Session {
	if sessionID != "" {
		if sess, ok := s.sessions.Get(sessionID); ok {
			return sess
		}
	}
	return s.sessions.Create("")
}

// retrieve embeds the query and searches the vector index. Hits come
// back ordered by descending cosine similarity.
func (s *ChatService) retrieve(ctx context.Context, query string) ([]domain.RetrievalHit, error) {
	vector, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.Search(ctx, vector, s.opts.TopK)
}

// renderContext formats retrieval hits as labeled blocks in rank
// order.
func (s *ChatService) renderContext(hits []domain.RetrievalHit) string {
	if len(hits) == 0 {
		return noContextMarker
	}
	blocks := make([]string, len(hits))
	for i, hit := range hits {
		blocks[i] = fmt.Sprintf("Document: %s\nContent: %s", hit.Chunk.Filename, hit.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// renderBoundedHistory renders the last HistoryLimit messages, oldest
// first.
func (s *ChatService) renderBoundedHistory(sess *domain.Session) string {
	messages := sess.Messages
	if len(messages) == 0 {
		return noHistoryMarker
	}
	if len(messages) > s.opts.HistoryLimit {
		messages = messages[len(messages)-s.opts.HistoryLimit:]
	}
	return renderHistory(messages)
}

func (s *ChatService) renderSources(hits []domain.RetrievalHit) []domain.Source {
	sources := make([]domain.Source, len(hits))
	for i, hit := range hits {
		content := hit.Chunk.Text
		if len(content) > s.opts.SourcePreviewChars {
			content = textPrefix(content, s.opts.SourcePreviewChars) + "..."
		}
		sources[i] = domain.Source{
			Filename:     hit.Chunk.Filename,
			DocumentType: hit.Chunk.DocumentType,
			Content:      content,
			Score:        hit.Score,
		}
	}
	return sources
}

// Summarize produces a short abstractive summary of the whole session
// history. Failures are swallowed into fixed fallback texts.
func (s *ChatService) Summarize(ctx context.Context, sessionID string) string {
	sess, ok := s.sessions.Get(sessionID)
	if !ok || len(sess.Messages) == 0 {
		return emptySummaryText
	}

	prompt := fmt.Sprintf(summaryPrompt, renderHistory(sess.Messages))
	summary, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("summary generation failed", zap.String("session_id", sessionID), zap.Error(err))
		return failedSummaryText
	}
	return strings.TrimSpace(summary)
}

// SuggestFollowUps proposes up to three follow-up questions based on
// the current query and the last three messages. Unknown sessions and
// internal failures yield an empty slice.
func (s *ChatService) SuggestFollowUps(ctx context.Context, query, sessionID string) []string {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil
	}

	recent := sess.Messages
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	recentText := renderHistory(recent)
	if recentText == "" {
		recentText = "No recent context."
	}

	prompt := fmt.Sprintf(suggestionPrompt, query, recentText)
	answer, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("follow-up generation failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return parse.FollowUps(answer)
}

// CreateSession creates a session and returns it.
func (s *ChatService) CreateSession(title string) *domain.Session {
	return s.sessions.Create(title)
}

// GetSession returns a session by id.
func (s *ChatService) GetSession(id string) (*domain.Session, bool) {
	return s.sessions.Get(id)
}

// ListSessions lists session summaries, most recently updated first.
func (s *ChatService) ListSessions() []domain.SessionSummary {
	return s.sessions.List()
}

// DeleteSession removes a session. Returns false when unknown.
func (s *ChatService) DeleteSession(id string) bool {
	return s.sessions.Delete(id)
}
