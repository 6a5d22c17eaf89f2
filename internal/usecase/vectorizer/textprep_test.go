package vectorizer

import (
	"strings"
	"testing"
)

func TestBuildText_FieldWeighting(t *testing.T) {
	got := BuildText(TaskText{
		Title:       "Login bug",
		Description: "Crash on submit",
		Tags:        []string{"auth", "mobile"},
	})

	if n := strings.Count(got, "Login bug"); n != 3 {
		t.Errorf("expected the title 3 times, got %d in %q", n, got)
	}
	if n := strings.Count(got, "Crash on submit"); n != 2 {
		t.Errorf("expected the description 2 times, got %d in %q", n, got)
	}
	if n := strings.Count(got, "auth"); n != 1 {
		t.Errorf("expected each tag once, got %d in %q", n, got)
	}
	if n := strings.Count(got, "mobile"); n != 1 {
		t.Errorf("expected each tag once, got %d in %q", n, got)
	}
}

func TestBuildText_SkipsEmptyFields(t *testing.T) {
	if got := BuildText(TaskText{}); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}

	got := BuildText(TaskText{Title: "  Title only  ", Tags: []string{"", "  "}})
	if got != "Title only Title only Title only" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestBuildText_StripsMarkupFromDescription(t *testing.T) {
	got := BuildText(TaskText{
		Title:       "T",
		Description: "<p>Hello <b>world</b></p>",
	})
	if strings.ContainsAny(got, "<>") {
		t.Errorf("markup leaked into embed text: %q", got)
	}
	if !strings.Contains(got, "Hello world") {
		t.Errorf("expected text content preserved, got %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"two   spaces\n\tand tabs", "two spaces and tabs"},
		{"<div><span>nested</span> markup</div>", "nested markup"},
		{"<script>alert(1)</script>visible", "alert(1) visible"},
		{"a < b and c > d", "a < b and c > d"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
