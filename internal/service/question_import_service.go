package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// questionColumns is the required header set for question spreadsheets.
var questionColumns = []string{"question", "option1", "option2", "option3", "option4", "correct_answer"}

type QuestionImportService interface {
	ImportQuestions(examID uint, filename string, r io.Reader) (*dto.ImportResultDTO, error)
	Template() (*excelize.File, error)
}

type questionImportService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
}

func NewQuestionImportService(examRepo repository.ExamRepository, questionRepo repository.QuestionRepository) QuestionImportService {
	return &questionImportService{examRepo: examRepo, questionRepo: questionRepo}
}

// ImportQuestions appends the valid rows of an uploaded spreadsheet to the
// exam's question list. The import is additive: existing questions are never
// touched, and a failed row only skips that row.
func (s *questionImportService) ImportQuestions(examID uint, filename string, r io.Reader) (*dto.ImportResultDTO, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Exam with ID %d not found", examID)}
		}
		return nil, fmt.Errorf("error fetching exam: %w", err)
	}

	rows, err := parseSpreadsheet(filename, r)
	if err != nil {
		return nil, err
	}

	questions, rowErrors, err := reconcileQuestionRows(rows)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		questions[i].ExamID = exam.ID
	}
	if err := s.questionRepo.CreateBatch(questions); err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("ImportQuestions: failed to persist imported questions")
		return nil, fmt.Errorf("database error saving imported questions: %w", err)
	}

	for _, rowErr := range rowErrors {
		log.Warn().Uint("examID", examID).Str("file", filename).Msg("ImportQuestions: " + rowErr)
	}
	log.Info().Uint("examID", examID).Int("imported", len(questions)).Int("skipped", len(rowErrors)).Msg("Question import completed")

	return &dto.ImportResultDTO{
		Message:  fmt.Sprintf("%d questions imported, %d rows had errors", len(questions), len(rowErrors)),
		Imported: len(questions),
		Skipped:  len(rowErrors),
		Errors:   rowErrors,
	}, nil
}

// reconcileQuestionRows validates the spreadsheet contents. A missing header
// rejects the whole file; bad data rows are skipped individually and reported
// with their 1-based spreadsheet row number.
func reconcileQuestionRows(rows [][]string) ([]model.Question, []string, error) {
	if len(rows) == 0 {
		return nil, nil, &ValidationError{Message: "The uploaded file is empty."}
	}

	index, missing := headerIndex(rows[0], questionColumns)
	if len(missing) > 0 {
		return nil, nil, &ValidationError{
			Message: fmt.Sprintf("File is missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	var questions []model.Question
	var rowErrors []string

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, counting the header row

		text := cellAt(row, index["question"])
		opts := [4]string{
			cellAt(row, index["option1"]),
			cellAt(row, index["option2"]),
			cellAt(row, index["option3"]),
			cellAt(row, index["option4"]),
		}
		correct := cellAt(row, index["correct_answer"])

		if text == "" && correct == "" && opts[0] == "" && opts[1] == "" && opts[2] == "" && opts[3] == "" {
			continue // fully blank row
		}

		if text == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: question text is empty.", rowNum))
			continue
		}
		emptyOption := false
		for n, opt := range opts {
			if opt == "" {
				rowErrors = append(rowErrors, fmt.Sprintf("Row %d: option%d is empty.", rowNum, n+1))
				emptyOption = true
				break
			}
		}
		if emptyOption {
			continue
		}
		if correct == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: correct answer is empty.", rowNum))
			continue
		}
		if correct != opts[0] && correct != opts[1] && correct != opts[2] && correct != opts[3] {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: correct answer %q does not match any option.", rowNum, correct))
			continue
		}

		questions = append(questions, model.Question{
			Text:          text,
			Options:       model.OptionList{opts[0], opts[1], opts[2], opts[3]},
			CorrectAnswer: correct,
		})
	}
	return questions, rowErrors, nil
}

// Template builds the downloadable XLSX question template: just the required
// header row plus one example.
func (s *questionImportService) Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	example := []string{"What is the capital of France?", "Paris", "London", "Rome", "Berlin", "Paris"}
	for col, name := range questionColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
		cell, err = excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, example[col]); err != nil {
			return nil, err
		}
	}
	return f, nil
}
