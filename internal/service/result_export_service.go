package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const summarySheetName = "Class Summary"

type ResultExportService interface {
	ExportExamResults(examID uint) ([]byte, string, error)
}

type resultExportService struct {
	examRepo repository.ExamRepository
	subRepo  repository.SubmissionRepository
}

func NewResultExportService(examRepo repository.ExamRepository, subRepo repository.SubmissionRepository) ResultExportService {
	return &resultExportService{examRepo: examRepo, subRepo: subRepo}
}

// ExportExamResults builds an XLSX workbook with a class-summary sheet and a
// per-submission detail sheet. Reads only; stored data is never modified.
func (s *resultExportService) ExportExamResults(examID uint) ([]byte, string, error) {
	exam, err := s.examRepo.FindByIDWithDetails(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &NotFoundError{Message: fmt.Sprintf("Exam with ID %d not found", examID)}
		}
		return nil, "", fmt.Errorf("error fetching exam: %w", err)
	}
	subs, err := s.subRepo.FindByExamID(examID)
	if err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("ExportExamResults: failed to fetch submissions")
		return nil, "", fmt.Errorf("error fetching submissions: %w", err)
	}

	f, err := BuildResultsWorkbook(exam, subs)
	if err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("ExportExamResults: failed to build workbook")
		return nil, "", fmt.Errorf("error building export workbook: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error serializing export workbook: %w", err)
	}
	filename := fmt.Sprintf("exam_%d_results.xlsx", examID)
	return buf.Bytes(), filename, nil
}

// BuildResultsWorkbook lays out the export described by the results view:
// one summary sheet for the class, one detail sheet per submission.
func BuildResultsWorkbook(exam *model.Exam, subs []model.ExamSubmission) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheetName); err != nil {
		return nil, err
	}

	if err := writeRow(f, summarySheetName, 1, []interface{}{"Username", "Score", "Submitted At", "Correct / Total"}); err != nil {
		return nil, err
	}

	row := 2
	for _, sub := range subs {
		score := "N/A"
		if sub.Score != nil {
			score = fmt.Sprintf("%.2f", *sub.Score)
		}
		correct := "N/A"
		if sub.CorrectAnswersCount != nil {
			correct = fmt.Sprintf("%d / %d", *sub.CorrectAnswersCount, sub.TotalQuestionsCount)
		}
		values := []interface{}{
			sub.Student.Username,
			score,
			sub.SubmittedAt.Format("2006-01-02 15:04"),
			correct,
		}
		if err := writeRow(f, summarySheetName, row, values); err != nil {
			return nil, err
		}
		row++
	}

	if err := writeRow(f, summarySheetName, row, []interface{}{"Class Average", ClassAverage(subs)}); err != nil {
		return nil, err
	}

	for _, sub := range subs {
		if err := addDetailSheet(f, exam, sub); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ClassAverage averages the numeric, non-null scores; submissions without a
// score are excluded from both the count and the sum.
func ClassAverage(subs []model.ExamSubmission) string {
	sum := 0.0
	count := 0
	for _, sub := range subs {
		if sub.Score == nil {
			continue
		}
		sum += *sub.Score
		count++
	}
	if count == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", sum/float64(count))
}

func addDetailSheet(f *excelize.File, exam *model.Exam, sub model.ExamSubmission) error {
	sheet := detailSheetName(sub)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, []interface{}{"Question", "Student Answer", "Correct Answer", "Result"}); err != nil {
		return err
	}

	row := 2
	for _, q := range exam.Questions {
		answer := sub.Answers[strconv.FormatUint(uint64(q.ID), 10)]
		result := "Incorrect"
		if answer == q.CorrectAnswer {
			result = "Correct"
		}
		if answer == "" {
			answer = "-"
		}
		if err := writeRow(f, sheet, row, []interface{}{q.Text, answer, q.CorrectAnswer, result}); err != nil {
			return err
		}
		row++
	}

	score := "N/A"
	if sub.Score != nil {
		score = fmt.Sprintf("%.2f", *sub.Score)
	}
	correct := 0
	if sub.CorrectAnswersCount != nil {
		correct = *sub.CorrectAnswersCount
	}
	summary := []interface{}{"Score", score, fmt.Sprintf("%d / %d correct", correct, sub.TotalQuestionsCount), ""}
	return writeRow(f, sheet, row, summary)
}

// detailSheetName keeps sheet names unique and under the 31-char XLSX limit.
func detailSheetName(sub model.ExamSubmission) string {
	name := fmt.Sprintf("Sub %d %s", sub.ID, sub.Student.Username)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
