package vectorizer

import (
	"strings"

	"golang.org/x/net/html"
)

// TaskText is the embedding-relevant projection of a task.
type TaskText struct {
	Title       string
	Description string
	Tags        []string
}

// BuildText combines the task fields into the text that gets embedded.
// Relative field importance is encoded as term-frequency bias: the title
// appears three times, the cleaned description twice, each tag once.
func BuildText(t TaskText) string {
	var parts []string

	if title := strings.TrimSpace(t.Title); title != "" {
		parts = append(parts, title, title, title)
	}
	if desc := StripHTML(t.Description); desc != "" {
		parts = append(parts, desc, desc)
	}
	for _, tag := range t.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			parts = append(parts, tag)
		}
	}

	return strings.Join(parts, " ")
}

// StripHTML removes markup from s via the HTML tokenizer, keeping only text
// content, and collapses runs of whitespace.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return collapseWhitespace(s)
	}

	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
	return collapseWhitespace(b.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
