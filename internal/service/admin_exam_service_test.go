package service

import (
	"errors"
	"testing"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
)

func validExamPayload() dto.ExamSaveDTO {
	return dto.ExamSaveDTO{
		Name:            "Geography Quiz",
		Subject:         "Geography",
		Status:          string(model.ExamStatusDraft),
		AllowedAttempts: 2,
		Questions: []dto.QuestionPayloadDTO{
			{
				Text:          "What is the capital of France?",
				Options:       []string{"Paris", "London", "Rome", "Berlin"},
				CorrectAnswer: "Paris",
			},
		},
	}
}

func TestValidateExamPayloadAccepts(t *testing.T) {
	if err := validateExamPayload(validExamPayload()); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateExamPayloadOrder(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*dto.ExamSaveDTO)
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(r *dto.ExamSaveDTO) { r.Name = "  " },
			message: "Exam name is required.",
		},
		{
			name:    "missing subject",
			mutate:  func(r *dto.ExamSaveDTO) { r.Subject = "" },
			message: "Subject is required.",
		},
		{
			name:    "zero attempts",
			mutate:  func(r *dto.ExamSaveDTO) { r.AllowedAttempts = 0 },
			message: "Allowed attempts must be a positive number.",
		},
		{
			name: "non-positive duration",
			mutate: func(r *dto.ExamSaveDTO) {
				zero := 0
				r.Duration = &zero
			},
			message: "Duration must be a positive number of minutes.",
		},
		{
			name:    "bad status",
			mutate:  func(r *dto.ExamSaveDTO) { r.Status = "Open" },
			message: "Status must be one of Draft, Published, Archived.",
		},
		{
			name:    "no questions",
			mutate:  func(r *dto.ExamSaveDTO) { r.Questions = nil },
			message: "An exam needs at least one question.",
		},
		{
			name:    "wrong option count",
			mutate:  func(r *dto.ExamSaveDTO) { r.Questions[0].Options = []string{"Paris", "London"} },
			message: "Question 1 must have exactly four options.",
		},
		{
			name:    "correct answer not an option",
			mutate:  func(r *dto.ExamSaveDTO) { r.Questions[0].CorrectAnswer = "Madrid" },
			message: "Question 1: correct answer does not match any option.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validExamPayload()
			tc.mutate(&req)

			err := validateExamPayload(req)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validation.Message != tc.message {
				t.Errorf("got %q, want %q", validation.Message, tc.message)
			}
		})
	}
}

func TestValidateExamPayloadNilDurationMeansUntimed(t *testing.T) {
	req := validExamPayload()
	req.Duration = nil
	if err := validateExamPayload(req); err != nil {
		t.Fatalf("nil duration should be allowed: %v", err)
	}
}

func TestOptionMatchesTrimsOptions(t *testing.T) {
	if !optionMatches([]string{" Paris ", "London"}, "Paris") {
		t.Error("trimmed option should match")
	}
	if optionMatches([]string{"Paris"}, "paris") {
		t.Error("matching must be case-sensitive")
	}
}

func TestCreateExamPersistsQuestionsAndGroups(t *testing.T) {
	examRepo := newFakeExamRepo()
	groupRepo := newFakeGroupRepo(&model.UserGroup{Name: "Class A"})
	svc := NewAdminExamService(examRepo, groupRepo, &fakeSubmissionRepo{})

	req := validExamPayload()
	req.GroupIDs = []uint{1}

	detail, err := svc.CreateExam(req)
	if err != nil {
		t.Fatalf("CreateExam returned error: %v", err)
	}
	if detail.QuestionCount != 1 {
		t.Errorf("expected 1 question, got %d", detail.QuestionCount)
	}
	if len(detail.AssignedGroups) != 1 || detail.AssignedGroups[0].Name != "Class A" {
		t.Errorf("group assignment not reflected: %+v", detail.AssignedGroups)
	}
}

func TestCreateExamRejectsUnknownGroup(t *testing.T) {
	svc := NewAdminExamService(newFakeExamRepo(), newFakeGroupRepo(), &fakeSubmissionRepo{})

	req := validExamPayload()
	req.GroupIDs = []uint{42}

	_, err := svc.CreateExam(req)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateExamReplacesQuestionSet(t *testing.T) {
	exam := &model.Exam{
		Name:            "Old",
		Subject:         "History",
		Status:          model.ExamStatusDraft,
		AllowedAttempts: 1,
		Questions: []model.Question{
			{Text: "Old question?", Options: model.OptionList{"A", "B", "C", "D"}, CorrectAnswer: "A"},
		},
	}
	examRepo := newFakeExamRepo(exam)
	svc := NewAdminExamService(examRepo, newFakeGroupRepo(), &fakeSubmissionRepo{})

	req := validExamPayload()
	req.Questions = []dto.QuestionPayloadDTO{
		{Text: "New 1?", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B"},
		{Text: "New 2?", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
	}

	detail, err := svc.UpdateExam(exam.ID, req)
	if err != nil {
		t.Fatalf("UpdateExam returned error: %v", err)
	}
	if detail.QuestionCount != 2 {
		t.Errorf("expected question set to be replaced, got %d questions", detail.QuestionCount)
	}
	if detail.Name != "Geography Quiz" {
		t.Errorf("metadata not updated: %q", detail.Name)
	}
}

func TestDeleteExamUnknownID(t *testing.T) {
	svc := NewAdminExamService(newFakeExamRepo(), newFakeGroupRepo(), &fakeSubmissionRepo{})

	_, err := svc.DeleteExam(7)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
