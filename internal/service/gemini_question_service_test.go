package service

import (
	"context"
	"testing"
)

func TestParseQuestionDraftsStripsFences(t *testing.T) {
	raw := "```json\n" +
		`[{"question":"Capital of France?","options":["Paris","London","Rome","Berlin"],"correct_answer":"Paris"}]` +
		"\n```"

	drafts, err := parseQuestionDrafts(raw)
	if err != nil {
		t.Fatalf("parseQuestionDrafts returned error: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if drafts[0].Text != "Capital of France?" || drafts[0].CorrectAnswer != "Paris" {
		t.Errorf("unexpected draft: %+v", drafts[0])
	}
}

func TestParseQuestionDraftsDropsInvalidDrafts(t *testing.T) {
	raw := `[
		{"question":"Good?","options":["A","B","C","D"],"correct_answer":"A"},
		{"question":"Too few options","options":["A","B"],"correct_answer":"A"},
		{"question":"Answer not an option","options":["A","B","C","D"],"correct_answer":"E"},
		{"question":"","options":["A","B","C","D"],"correct_answer":"A"}
	]`

	drafts, err := parseQuestionDrafts(raw)
	if err != nil {
		t.Fatalf("parseQuestionDrafts returned error: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected only the valid draft to survive, got %d", len(drafts))
	}
	if drafts[0].Text != "Good?" {
		t.Errorf("wrong draft kept: %+v", drafts[0])
	}
}

func TestParseQuestionDraftsRejectsProse(t *testing.T) {
	if _, err := parseQuestionDrafts("Sure! Here are your questions:"); err == nil {
		t.Error("non-JSON output must be rejected")
	}
}

func TestDraftQuestionsUnconfiguredClient(t *testing.T) {
	svc := &geminiQuestionService{}
	_, err := svc.DraftQuestions(context.Background(), "history", 3)
	if err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}
