package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
)

func importCSV(t *testing.T, svc QuestionImportService, examID uint, content string) (*dto.ImportResultDTO, error) {
	t.Helper()
	return svc.ImportQuestions(examID, "questions.csv", strings.NewReader(content))
}

func TestImportQuestionsAppendsValidRows(t *testing.T) {
	examRepo := newFakeExamRepo(&model.Exam{Name: "Quiz", Status: model.ExamStatusDraft})
	questionRepo := &fakeQuestionRepo{}
	svc := NewQuestionImportService(examRepo, questionRepo)

	csv := "question,option1,option2,option3,option4,correct_answer\n" +
		"What is 2+2?,1,2,3,4,4\n" +
		"Capital of France?,Paris,London,Rome,Berlin,Paris\n"

	res, err := importCSV(t, svc, 1, csv)
	if err != nil {
		t.Fatalf("ImportQuestions returned error: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("got imported=%d skipped=%d, want 2/0", res.Imported, res.Skipped)
	}
	if res.Message != "2 questions imported, 0 rows had errors" {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if len(questionRepo.created) != 2 {
		t.Fatalf("expected 2 persisted questions, got %d", len(questionRepo.created))
	}
	for _, q := range questionRepo.created {
		if q.ExamID != 1 {
			t.Errorf("question %q not attached to exam 1 (got exam %d)", q.Text, q.ExamID)
		}
	}
}

func TestImportQuestionsSkipsBadRowsIndividually(t *testing.T) {
	examRepo := newFakeExamRepo(&model.Exam{Name: "Quiz", Status: model.ExamStatusDraft})
	questionRepo := &fakeQuestionRepo{}
	svc := NewQuestionImportService(examRepo, questionRepo)

	csv := "question,option1,option2,option3,option4,correct_answer\n" +
		"Good question?,A,B,C,D,A\n" +
		",A,B,C,D,A\n" + // empty question text
		"Bad correct?,A,B,C,D,E\n" // correct answer not among options

	res, err := importCSV(t, svc, 1, csv)
	if err != nil {
		t.Fatalf("ImportQuestions returned error: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 2 {
		t.Fatalf("got imported=%d skipped=%d, want 1/2", res.Imported, res.Skipped)
	}
	if res.Message != "1 questions imported, 2 rows had errors" {
		t.Errorf("unexpected message: %q", res.Message)
	}
	// Row numbers are 1-based and count the header as row 1.
	if res.Errors[0] != "Row 3: question text is empty." {
		t.Errorf("unexpected first row error: %q", res.Errors[0])
	}
	if res.Errors[1] != `Row 4: correct answer "E" does not match any option.` {
		t.Errorf("unexpected second row error: %q", res.Errors[1])
	}
}

func TestImportQuestionsRejectsMissingColumns(t *testing.T) {
	examRepo := newFakeExamRepo(&model.Exam{Name: "Quiz", Status: model.ExamStatusDraft})
	questionRepo := &fakeQuestionRepo{}
	svc := NewQuestionImportService(examRepo, questionRepo)

	csv := "question,option1,option2,correct_answer\nQ?,A,B,A\n"

	_, err := importCSV(t, svc, 1, csv)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Message != "File is missing required columns: option3, option4" {
		t.Errorf("unexpected message: %q", validation.Message)
	}
	if len(questionRepo.created) != 0 {
		t.Errorf("no questions should be persisted on wholesale rejection")
	}
}

func TestImportQuestionsHeaderMatchingIsCaseInsensitive(t *testing.T) {
	examRepo := newFakeExamRepo(&model.Exam{Name: "Quiz", Status: model.ExamStatusDraft})
	svc := NewQuestionImportService(examRepo, &fakeQuestionRepo{})

	csv := " Question ,OPTION1,Option2,option3,option4, Correct_Answer \nQ?,A,B,C,D,B\n"

	res, err := importCSV(t, svc, 1, csv)
	if err != nil {
		t.Fatalf("ImportQuestions returned error: %v", err)
	}
	if res.Imported != 1 {
		t.Errorf("expected 1 imported, got %d", res.Imported)
	}
}

func TestImportQuestionsIgnoresBlankRows(t *testing.T) {
	examRepo := newFakeExamRepo(&model.Exam{Name: "Quiz", Status: model.ExamStatusDraft})
	svc := NewQuestionImportService(examRepo, &fakeQuestionRepo{})

	csv := "question,option1,option2,option3,option4,correct_answer\n" +
		"Q?,A,B,C,D,C\n" +
		",,,,,\n" +
		"   ,  , , ,,\n"

	res, err := importCSV(t, svc, 1, csv)
	if err != nil {
		t.Fatalf("ImportQuestions returned error: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 0 {
		t.Errorf("blank rows must be dropped silently: imported=%d skipped=%d", res.Imported, res.Skipped)
	}
}

func TestImportQuestionsUnknownExam(t *testing.T) {
	svc := NewQuestionImportService(newFakeExamRepo(), &fakeQuestionRepo{})

	_, err := svc.ImportQuestions(99, "questions.csv", strings.NewReader("x"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestImportQuestionsRejectsUnsupportedFileType(t *testing.T) {
	examRepo := newFakeExamRepo(&model.Exam{Name: "Quiz", Status: model.ExamStatusDraft})
	svc := NewQuestionImportService(examRepo, &fakeQuestionRepo{})

	_, err := svc.ImportQuestions(1, "questions.pdf", strings.NewReader("junk"))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(validation.Message, "CSV or XLSX") {
		t.Errorf("unexpected message: %q", validation.Message)
	}
}

func TestTemplateHasRequiredColumns(t *testing.T) {
	examRepo := newFakeExamRepo()
	svc := NewQuestionImportService(examRepo, &fakeQuestionRepo{})

	f, err := svc.Template()
	if err != nil {
		t.Fatalf("Template returned error: %v", err)
	}
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + example row, got %d rows", len(rows))
	}
	for i, want := range questionColumns {
		if rows[0][i] != want {
			t.Errorf("header column %d = %q, want %q", i, rows[0][i], want)
		}
	}
	if rows[1][0] != "What is the capital of France?" {
		t.Errorf("unexpected example row: %v", rows[1])
	}
}
