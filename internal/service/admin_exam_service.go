package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultPageSize = 20

type AdminExamService interface {
	ListExams(search string, page, pageSize int) (*dto.PagedExamsDTO, error)
	GetExam(id uint) (*dto.ExamDetailDTO, error)
	CreateExam(req dto.ExamSaveDTO) (*dto.ExamDetailDTO, error)
	UpdateExam(id uint, req dto.ExamSaveDTO) (*dto.ExamDetailDTO, error)
	DeleteExam(id uint) (string, error)
	GetExamResults(examID uint) ([]dto.SubmissionDTO, error)
}

type adminExamService struct {
	examRepo  repository.ExamRepository
	groupRepo repository.UserGroupRepository
	subRepo   repository.SubmissionRepository
}

func NewAdminExamService(
	examRepo repository.ExamRepository,
	groupRepo repository.UserGroupRepository,
	subRepo repository.SubmissionRepository,
) AdminExamService {
	return &adminExamService{examRepo: examRepo, groupRepo: groupRepo, subRepo: subRepo}
}

func (s *adminExamService) ListExams(search string, page, pageSize int) (*dto.PagedExamsDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize

	exams, total, err := s.examRepo.FindAllWithQuestionCount(search, offset, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("ListExams: repository error")
		return nil, fmt.Errorf("error fetching exams: %w", err)
	}

	items := make([]dto.ExamSummaryDTO, 0, len(exams))
	for _, e := range exams {
		items = append(items, dto.ExamSummaryDTO{
			ID:              e.ID,
			Name:            e.Name,
			Subject:         e.Subject,
			Duration:        e.Duration,
			Status:          string(e.Status),
			AllowedAttempts: e.AllowedAttempts,
			QuestionCount:   e.QuestionCount,
			CreatedAt:       e.CreatedAt,
		})
	}
	return &dto.PagedExamsDTO{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *adminExamService) GetExam(id uint) (*dto.ExamDetailDTO, error) {
	exam, err := s.examRepo.FindByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Exam with ID %d not found", id)}
		}
		log.Error().Err(err).Uint("examID", id).Msg("GetExam: repository error")
		return nil, fmt.Errorf("error fetching exam: %w", err)
	}
	return examDetailDTO(exam), nil
}

func (s *adminExamService) CreateExam(req dto.ExamSaveDTO) (*dto.ExamDetailDTO, error) {
	if err := validateExamPayload(req); err != nil {
		return nil, err
	}
	groups, err := s.resolveGroups(req.GroupIDs)
	if err != nil {
		return nil, err
	}

	exam := model.Exam{
		Name:            strings.TrimSpace(req.Name),
		Subject:         strings.TrimSpace(req.Subject),
		Duration:        req.Duration,
		Status:          model.ExamStatus(req.Status),
		AllowedAttempts: req.AllowedAttempts,
		Questions:       questionsFromPayload(req.Questions),
		AssignedGroups:  groups,
	}
	if err := s.examRepo.Create(&exam); err != nil {
		log.Error().Err(err).Str("name", exam.Name).Msg("CreateExam: failed to persist exam")
		return nil, fmt.Errorf("database error creating exam: %w", err)
	}
	log.Info().Uint("examID", exam.ID).Str("name", exam.Name).Int("questions", len(exam.Questions)).Msg("Exam created")

	return s.GetExam(exam.ID)
}

func (s *adminExamService) UpdateExam(id uint, req dto.ExamSaveDTO) (*dto.ExamDetailDTO, error) {
	exam, err := s.examRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Exam with ID %d not found", id)}
		}
		return nil, fmt.Errorf("error fetching exam: %w", err)
	}
	if err := validateExamPayload(req); err != nil {
		return nil, err
	}
	groups, err := s.resolveGroups(req.GroupIDs)
	if err != nil {
		return nil, err
	}

	exam.Name = strings.TrimSpace(req.Name)
	exam.Subject = strings.TrimSpace(req.Subject)
	exam.Duration = req.Duration
	exam.Status = model.ExamStatus(req.Status)
	exam.AllowedAttempts = req.AllowedAttempts

	if err := s.examRepo.Update(exam); err != nil {
		log.Error().Err(err).Uint("examID", id).Msg("UpdateExam: failed to update exam")
		return nil, fmt.Errorf("database error updating exam: %w", err)
	}
	// Edit-form semantics: the submitted question set replaces the old one.
	if err := s.examRepo.ReplaceQuestions(id, questionsFromPayload(req.Questions)); err != nil {
		log.Error().Err(err).Uint("examID", id).Msg("UpdateExam: failed to replace questions")
		return nil, fmt.Errorf("database error updating questions: %w", err)
	}
	if err := s.examRepo.ReplaceGroups(exam, groups); err != nil {
		log.Error().Err(err).Uint("examID", id).Msg("UpdateExam: failed to update group assignment")
		return nil, fmt.Errorf("database error updating group assignment: %w", err)
	}

	return s.GetExam(id)
}

func (s *adminExamService) DeleteExam(id uint) (string, error) {
	exam, err := s.examRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &NotFoundError{Message: fmt.Sprintf("Exam with ID %d not found", id)}
		}
		return "", fmt.Errorf("error fetching exam: %w", err)
	}
	if err := s.examRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("examID", id).Msg("DeleteExam: failed to delete exam")
		return "", fmt.Errorf("database error deleting exam: %w", err)
	}
	log.Info().Uint("examID", id).Str("name", exam.Name).Msg("Exam deleted")
	return exam.Name, nil
}

func (s *adminExamService) GetExamResults(examID uint) ([]dto.SubmissionDTO, error) {
	if _, err := s.examRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Exam not found"}
		}
		return nil, fmt.Errorf("error fetching exam: %w", err)
	}
	subs, err := s.subRepo.FindByExamID(examID)
	if err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("GetExamResults: repository error")
		return nil, fmt.Errorf("error fetching results: %w", err)
	}

	results := make([]dto.SubmissionDTO, 0, len(subs))
	for _, sub := range subs {
		results = append(results, submissionDTO(sub))
	}
	return results, nil
}

func (s *adminExamService) resolveGroups(ids []uint) ([]model.UserGroup, error) {
	groups, err := s.groupRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("error resolving groups: %w", err)
	}
	if len(groups) != len(ids) {
		return nil, &ValidationError{Message: "One or more assigned groups do not exist."}
	}
	return groups, nil
}

// validateExamPayload runs the authoring-form rules in order and stops at the
// first failure.
func validateExamPayload(req dto.ExamSaveDTO) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Message: "Exam name is required."}
	}
	if strings.TrimSpace(req.Subject) == "" {
		return &ValidationError{Message: "Subject is required."}
	}
	if req.AllowedAttempts < 1 {
		return &ValidationError{Message: "Allowed attempts must be a positive number."}
	}
	if req.Duration != nil && *req.Duration < 1 {
		return &ValidationError{Message: "Duration must be a positive number of minutes."}
	}
	if !model.ExamStatus(req.Status).Valid() {
		return &ValidationError{Message: "Status must be one of Draft, Published, Archived."}
	}
	if len(req.Questions) == 0 {
		return &ValidationError{Message: "An exam needs at least one question."}
	}
	for i, q := range req.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Message: fmt.Sprintf("Question %d has empty text.", i+1)}
		}
		if len(q.Options) != 4 {
			return &ValidationError{Message: fmt.Sprintf("Question %d must have exactly four options.", i+1)}
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return &ValidationError{Message: fmt.Sprintf("Question %d has an empty option.", i+1)}
			}
		}
		correct := strings.TrimSpace(q.CorrectAnswer)
		if correct == "" {
			return &ValidationError{Message: fmt.Sprintf("Question %d has no correct answer selected.", i+1)}
		}
		if !optionMatches(q.Options, correct) {
			return &ValidationError{Message: fmt.Sprintf("Question %d: correct answer does not match any option.", i+1)}
		}
	}
	return nil
}

func optionMatches(options []string, correct string) bool {
	for _, opt := range options {
		if strings.TrimSpace(opt) == correct {
			return true
		}
	}
	return false
}

func questionsFromPayload(payload []dto.QuestionPayloadDTO) []model.Question {
	questions := make([]model.Question, 0, len(payload))
	for _, q := range payload {
		options := make(model.OptionList, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, strings.TrimSpace(opt))
		}
		questions = append(questions, model.Question{
			Text:          strings.TrimSpace(q.Text),
			Options:       options,
			CorrectAnswer: strings.TrimSpace(q.CorrectAnswer),
		})
	}
	return questions
}

func examDetailDTO(exam *model.Exam) *dto.ExamDetailDTO {
	detail := dto.ExamDetailDTO{
		ID:              exam.ID,
		Name:            exam.Name,
		Subject:         exam.Subject,
		Duration:        exam.Duration,
		Status:          string(exam.Status),
		AllowedAttempts: exam.AllowedAttempts,
		QuestionCount:   len(exam.Questions),
		Questions:       make([]dto.QuestionResponseDTO, 0, len(exam.Questions)),
		AssignedGroups:  make([]dto.GroupRefDTO, 0, len(exam.AssignedGroups)),
		CreatedAt:       exam.CreatedAt,
	}
	for _, q := range exam.Questions {
		var qResp dto.QuestionResponseDTO
		if err := copier.Copy(&qResp, &q); err != nil {
			log.Error().Err(err).Uint("questionID", q.ID).Msg("examDetailDTO: question mapping failed")
			continue
		}
		detail.Questions = append(detail.Questions, qResp)
	}
	for _, g := range exam.AssignedGroups {
		detail.AssignedGroups = append(detail.AssignedGroups, dto.GroupRefDTO{ID: g.ID, Name: g.Name})
	}
	return &detail
}

func submissionDTO(sub model.ExamSubmission) dto.SubmissionDTO {
	return dto.SubmissionDTO{
		ID:             sub.ID,
		UserID:         sub.UserID,
		ExamID:         sub.ExamID,
		SubmittedAt:    sub.SubmittedAt.Format(time.RFC3339),
		Score:          sub.Score,
		CorrectAnswers: sub.CorrectAnswersCount,
		TotalQuestions: sub.TotalQuestionsCount,
		Answers:        sub.Answers,
		Username:       sub.Student.Username,
		ExamName:       sub.Exam.Name,
	}
}
