package chi

import (
	"time"

	domtask "github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/domain/search/result"
)

// createTaskRequest is the body for POST /tasks.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Severity    string `json:"severity,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

// updateTaskRequest is the body for PUT /tasks/{id}. Absent fields are
// left untouched.
type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status"`
	Severity    *string   `json:"severity"`
	AssignedTo  *string   `json:"assigned_to"`
}

// searchRequest is the body for POST /search.
type searchRequest struct {
	Query       string `json:"query"`
	Mode        string `json:"mode,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	ScopeUserID string `json:"scope_user_id,omitempty"`
}

// taskResponse is the task wire representation. Embeddings are internal
// and never serialized.
type taskResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Status       string    `json:"status"`
	Severity     string    `json:"severity"`
	CreatedBy    string    `json:"created_by,omitempty"`
	AssignedTo   string    `json:"assigned_to,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	HasEmbedding bool      `json:"has_embedding"`
}

type taskListResponse struct {
	Items []taskResponse `json:"items"`
	Total int            `json:"total"`
}

type searchResultItem struct {
	Task       taskResponse `json:"task"`
	Similarity float64      `json:"similarity"`
	FinalScore float64      `json:"final_score"`
	Source     string       `json:"source"`
}

type searchResponse struct {
	Results       []searchResultItem `json:"results"`
	Total         int                `json:"total"`
	EnhancedQuery string             `json:"enhanced_query,omitempty"`
	Suggestions   []string           `json:"suggestions,omitempty"`
}

func taskToDTO(t *domtask.Task) taskResponse {
	tags := t.Tags()
	if tags == nil {
		tags = []string{}
	}
	return taskResponse{
		ID:           t.ID(),
		Title:        t.Title(),
		Description:  t.Description(),
		Tags:         tags,
		Status:       string(t.Status()),
		Severity:     string(t.Severity()),
		CreatedBy:    t.CreatedBy(),
		AssignedTo:   t.AssignedTo(),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
		HasEmbedding: t.HasEmbedding(),
	}
}

func resultToDTO(r *result.Result) searchResultItem {
	return searchResultItem{
		Task:       taskToDTO(r.Task()),
		Similarity: r.Similarity(),
		FinalScore: r.FinalScore(),
		Source:     string(r.Source()),
	}
}

func patchFromRequest(req updateTaskRequest) domtask.Patch {
	p := domtask.Patch{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.Status != nil {
		st := domtask.Status(*req.Status)
		p.Status = &st
	}
	if req.Severity != nil {
		sev := domtask.Severity(*req.Severity)
		p.Severity = &sev
	}
	return p
}
