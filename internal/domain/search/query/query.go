package query

import (
	"fmt"
	"strings"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 500
	DefaultLimit  = 20
	MaxLimit      = 100
)

// Query is a validated, per-request search input. It is never persisted.
type Query struct {
	text        string
	searchMode  mode.Mode
	limit       int
	scopeUserID string
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, limit=20. Limit is clamped to MaxLimit.
func New(text string, m mode.Mode, limit int, scopeUserID string) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidQuery, m)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{
		text:        text,
		searchMode:  m,
		limit:       limit,
		scopeUserID: scopeUserID,
	}, nil
}

// Text returns the query text.
func (q *Query) Text() string { return q.text }

// Mode returns the search strategy.
func (q *Query) Mode() mode.Mode { return q.searchMode }

// Limit returns the maximum results to return.
func (q *Query) Limit() int { return q.limit }

// ScopeUserID returns the optional owner filter ("" = unscoped).
func (q *Query) ScopeUserID() string { return q.scopeUserID }

// WithText returns a copy carrying the given text (used after query
// enhancement; mode, limit, and scope are preserved).
func (q *Query) WithText(text string) Query {
	c := *q
	c.text = text
	return c
}
