package result

import "github.com/taskhive/taskhive/internal/domain/task"

// Source identifies which matcher produced a result.
type Source string

// Result source constants.
const (
	SourceKeyword  Source = "keyword"
	SourceSemantic Source = "semantic"
	SourceBoth     Source = "both"
)

// Result is a single scored search hit. FinalScore is the sole ordering key
// at presentation time; Similarity is retained for diagnostics.
type Result struct {
	task       task.Task
	similarity float64
	finalScore float64
	source     Source
}

// New creates a search result.
func New(t task.Task, similarity, finalScore float64, source Source) Result {
	return Result{task: t, similarity: similarity, finalScore: finalScore, source: source}
}

// Task returns the matched task.
func (r *Result) Task() *task.Task { return &r.task }

// Similarity returns the matcher-native score (cosine similarity for
// semantic hits, term relevance for keyword hits).
func (r *Result) Similarity() float64 { return r.similarity }

// FinalScore returns the presentation-time ranking score.
func (r *Result) FinalScore() float64 { return r.finalScore }

// Source returns which matcher(s) produced this hit.
func (r *Result) Source() Source { return r.source }
