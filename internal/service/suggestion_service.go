package service

import (
	"context"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/repository/memory"
	"intituas-ai-be/pkg/capability"
	"intituas-ai-be/pkg/metrics"
)

type ISuggestionService interface {
	Suggestions(ctx context.Context, documentContent *string) dto.SuggestionResponse
}

type suggestionService struct {
	capability capability.Capability
	cache      *memory.SuggestionCache
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewSuggestionService(c capability.Capability, cache *memory.SuggestionCache, m *metrics.Metrics, log logger.ILogger) ISuggestionService {
	return &suggestionService{
		capability: c,
		cache:      cache,
		metrics:    m,
		logger:     log,
	}
}

// Suggestions grounds the prompts in the document when it has content and
// falls back to general conversation starters otherwise. The list is
// returned as the model produced it.
func (s *suggestionService) Suggestions(ctx context.Context, documentContent *string) dto.SuggestionResponse {
	content := ""
	if dto.HasDocument(documentContent) {
		content = *documentContent
	}

	key := ""
	if s.cache != nil {
		key = s.cache.Key(content)
		if cached, ok := s.cache.Get(key); ok {
			s.count("cache", nil)
			return dto.SuggestionResponse{Suggestions: cached}
		}
	}

	out, err := s.capability.GenerateSuggestions(ctx, capability.SuggestionsInput{DocumentContent: content})
	s.count("generated", err)
	if err != nil {
		s.logger.Error("SUGGESTIONS", "Failed to generate suggestions", map[string]interface{}{
			"grounded": content != "",
			"error":    err.Error(),
		})
		return dto.SuggestionResponse{Error: constant.SuggestionFailureMessage}
	}

	if s.cache != nil {
		s.cache.Save(key, out.Suggestions)
	}
	return dto.SuggestionResponse{Suggestions: out.Suggestions}
}

func (s *suggestionService) count(source string, err error) {
	if s.metrics != nil {
		s.metrics.SuggestionsTotal.WithLabelValues(source, metrics.Outcome(err)).Inc()
	}
}
