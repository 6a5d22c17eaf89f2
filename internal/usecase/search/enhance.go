package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// maxEnhancedLength rejects runaway model output: an enhanced query this
// long would dominate cost and drown the original intent.
const maxEnhancedLength = 200

const enhanceSystemPrompt = `You are a search query enhancement expert.
Your task is to improve search queries for a task management system.

Enhance the query by:
1. Adding relevant synonyms and related terms
2. Expanding abbreviations
3. Including technical terms that might be relevant
4. Maintaining the original intent

Return ONLY the enhanced query, nothing else.`

// enhanceQuery asks the assistant to expand the query with synonyms and
// related terms. Every failure path returns the original text: a missing
// or misbehaving model must never narrow search to zero results.
func (s *Service) enhanceQuery(ctx context.Context, original string) string {
	if s.assistant == nil {
		return original
	}

	user := fmt.Sprintf(
		"Enhance this search query for better task search results:\n\nOriginal query: %q\n\nEnhanced query:",
		original,
	)

	enhanced, err := s.assistant.Complete(ctx, enhanceSystemPrompt, user)
	if err != nil {
		s.logger.Warn("query enhancement failed", zap.Error(err))
		return original
	}

	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" || len(enhanced) >= maxEnhancedLength {
		return original
	}
	return enhanced
}
