package task

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const maxGeneratedTags = 5

const tagSystemPrompt = `You label tasks and bug reports for a task tracking system.
Identify relevant tags and return 3-5 tags only, as a comma-separated list.

Focus on:
- Technology/platform (UI, API, Database, Mobile, etc.)
- Severity/priority indicators
- Component/feature area
- Issue type (bug, feature, enhancement, etc.)

Return only the tags, comma-separated, no explanations.`

// fallbackTagKeywords maps a tag to the title/description keywords that
// imply it when the assistant is unavailable.
var fallbackTagKeywords = []struct {
	tag      string
	keywords []string
}{
	{"UI", []string{"ui", "interface", "button", "form", "display", "layout", "design"}},
	{"Performance", []string{"slow", "performance", "speed", "lag", "timeout", "loading"}},
	{"API", []string{"api", "endpoint", "request", "response", "server", "backend"}},
	{"Database", []string{"database", "db", "query", "data", "sql"}},
	{"Authentication", []string{"login", "auth", "password", "user", "session", "token"}},
	{"Mobile", []string{"mobile", "phone", "android", "ios", "responsive"}},
	{"Security", []string{"security", "vulnerability", "xss", "sql injection", "csrf"}},
	{"Frontend", []string{"frontend", "react", "javascript", "css", "html"}},
	{"Critical", []string{"critical", "crash", "error", "broken", "fail"}},
	{"Bug", []string{"bug", "issue", "problem", "error", "defect"}},
	{"Feature", []string{"feature", "enhancement", "improvement", "new"}},
	{"Task", []string{"task", "todo", "work", "implement"}},
}

// generateTags produces 3-5 tags for a task via the assistant, degrading
// to keyword mapping on any failure.
func (s *Service) generateTags(ctx context.Context, title, description string) []string {
	if s.assistant == nil {
		return fallbackTags(title, description)
	}

	user := fmt.Sprintf("Task Title: %q\nDescription: %q", title, description)
	resp, err := s.assistant.Complete(ctx, tagSystemPrompt, user)
	if err != nil {
		s.logger.Warn("tag generation failed, using fallback", zap.Error(err))
		return fallbackTags(title, description)
	}

	var tags []string
	for _, tag := range strings.Split(resp, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return fallbackTags(title, description)
	}
	if len(tags) > maxGeneratedTags {
		tags = tags[:maxGeneratedTags]
	}
	return tags
}

// fallbackTags derives tags from keyword occurrence in the task text.
func fallbackTags(title, description string) []string {
	text := strings.ToLower(title + " " + description)

	var tags []string
	for _, m := range fallbackTagKeywords {
		for _, kw := range m.keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, m.tag)
				break
			}
		}
		if len(tags) == maxGeneratedTags {
			break
		}
	}

	if len(tags) == 0 {
		return []string{"General"}
	}
	return tags
}
