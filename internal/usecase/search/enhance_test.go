package search

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEnhanceQuery_NilAssistant(t *testing.T) {
	svc := newService(&mockFinder{}, &mockVectorizer{}, nil)

	got := svc.enhanceQuery(context.Background(), "login bug")
	if got != "login bug" {
		t.Errorf("expected original query, got %q", got)
	}
}

func TestEnhanceQuery_AssistantError(t *testing.T) {
	assistant := &mockAssistant{err: errors.New("model overloaded")}
	svc := newService(&mockFinder{}, &mockVectorizer{}, assistant)

	got := svc.enhanceQuery(context.Background(), "login bug")
	if got != "login bug" {
		t.Errorf("expected original query on assistant error, got %q", got)
	}
}

func TestEnhanceQuery_TrimsReply(t *testing.T) {
	assistant := &mockAssistant{reply: "  login authentication signin  \n"}
	svc := newService(&mockFinder{}, &mockVectorizer{}, assistant)

	got := svc.enhanceQuery(context.Background(), "login")
	if got != "login authentication signin" {
		t.Errorf("expected trimmed reply, got %q", got)
	}
	if !strings.Contains(assistant.lastUser, "login") {
		t.Errorf("expected the prompt to carry the original query, got %q", assistant.lastUser)
	}
}

func TestEnhanceQuery_RejectsEmptyReply(t *testing.T) {
	assistant := &mockAssistant{reply: "   "}
	svc := newService(&mockFinder{}, &mockVectorizer{}, assistant)

	got := svc.enhanceQuery(context.Background(), "login")
	if got != "login" {
		t.Errorf("expected original query for blank reply, got %q", got)
	}
}

func TestEnhanceQuery_RejectsRunawayReply(t *testing.T) {
	assistant := &mockAssistant{reply: strings.Repeat("x", maxEnhancedLength)}
	svc := newService(&mockFinder{}, &mockVectorizer{}, assistant)

	got := svc.enhanceQuery(context.Background(), "login")
	if got != "login" {
		t.Errorf("expected original query for oversized reply, got %q", got)
	}
}
