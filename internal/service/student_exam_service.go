package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type StudentExamService interface {
	AvailableExams(student *model.User) ([]dto.AvailableExamDTO, error)
	TakeExam(student *model.User, examID uint) (*dto.TakeExamDTO, error)
	SubmitExam(student *model.User, examID uint, req dto.SubmitAnswersDTO) (*dto.SubmissionResultDTO, error)
	Dashboard(student *model.User) (*dto.StudentDashboardDTO, error)
	Profile(student *model.User) *dto.ProfileDTO
	EditProfile(student *model.User, req dto.ProfileEditDTO) (*dto.ProfileEditResponseDTO, error)
}

type studentExamService struct {
	examRepo  repository.ExamRepository
	groupRepo repository.UserGroupRepository
	subRepo   repository.SubmissionRepository
	userRepo  repository.UserRepository
}

func NewStudentExamService(
	examRepo repository.ExamRepository,
	groupRepo repository.UserGroupRepository,
	subRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
) StudentExamService {
	return &studentExamService{examRepo: examRepo, groupRepo: groupRepo, subRepo: subRepo, userRepo: userRepo}
}

func (s *studentExamService) AvailableExams(student *model.User) ([]dto.AvailableExamDTO, error) {
	exams, err := s.visiblePublishedExams(student)
	if err != nil {
		return nil, err
	}

	available := make([]dto.AvailableExamDTO, 0, len(exams))
	for _, exam := range exams {
		taken, err := s.subRepo.CountByUserAndExam(student.ID, exam.ID)
		if err != nil {
			log.Error().Err(err).Uint("examID", exam.ID).Msg("AvailableExams: failed to count attempts")
			return nil, fmt.Errorf("error counting attempts: %w", err)
		}
		remaining := exam.AllowedAttempts - int(taken)
		if remaining < 0 {
			remaining = 0
		}
		available = append(available, dto.AvailableExamDTO{
			ID:                exam.ID,
			Name:              exam.Name,
			Subject:           exam.Subject,
			Duration:          exam.Duration,
			QuestionCount:     len(exam.Questions),
			AllowedAttempts:   exam.AllowedAttempts,
			AttemptsRemaining: remaining,
		})
	}
	return available, nil
}

func (s *studentExamService) TakeExam(student *model.User, examID uint) (*dto.TakeExamDTO, error) {
	exam, err := s.examRepo.FindByIDWithDetails(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Exam not found"}
		}
		return nil, fmt.Errorf("error fetching exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, &NotFoundError{Message: "Exam not found"}
	}
	visible, err := s.examVisible(student, exam)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, &ForbiddenError{Message: "This exam is not available to you."}
	}

	// Correct answers never leave the server on this route.
	questions := make([]dto.StudentQuestionDTO, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		questions = append(questions, dto.StudentQuestionDTO{
			ID:      q.ID,
			ExamID:  q.ExamID,
			Text:    q.Text,
			Options: q.Options,
		})
	}
	return &dto.TakeExamDTO{
		ID:        exam.ID,
		Name:      exam.Name,
		Subject:   exam.Subject,
		Duration:  exam.Duration,
		Questions: questions,
	}, nil
}

func (s *studentExamService) SubmitExam(student *model.User, examID uint, req dto.SubmitAnswersDTO) (*dto.SubmissionResultDTO, error) {
	exam, err := s.examRepo.FindByIDWithDetails(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Exam not found."}
		}
		return nil, fmt.Errorf("error fetching exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, &ForbiddenError{Message: "This exam is not currently available for submission."}
	}

	taken, err := s.subRepo.CountByUserAndExam(student.ID, examID)
	if err != nil {
		return nil, fmt.Errorf("error counting attempts: %w", err)
	}
	if int(taken) >= exam.AllowedAttempts {
		return nil, &ForbiddenError{
			Message: fmt.Sprintf("Submission failed: Maximum attempts (%d) reached.", exam.AllowedAttempts),
		}
	}

	correctCount, total := GradeAnswers(exam.Questions, req.Answers)
	score := 0.0
	if total > 0 {
		score = float64(correctCount) / float64(total) * 100.0
	}

	submission := model.ExamSubmission{
		UserID:              student.ID,
		ExamID:              examID,
		SubmittedAt:         time.Now().UTC(),
		Score:               &score,
		CorrectAnswersCount: &correctCount,
		TotalQuestionsCount: total,
		Answers:             model.AnswerMap(req.Answers),
	}
	if err := s.subRepo.Create(&submission); err != nil {
		log.Error().Err(err).Uint("examID", examID).Uint("userID", student.ID).Msg("SubmitExam: failed to save submission")
		return nil, fmt.Errorf("error saving submission: %w", err)
	}
	log.Info().
		Uint("submissionID", submission.ID).
		Uint("examID", examID).
		Uint("userID", student.ID).
		Float64("score", score).
		Msg("Exam submitted")

	return &dto.SubmissionResultDTO{
		Message:        "Exam submitted successfully.",
		SubmissionID:   submission.ID,
		CorrectAnswers: correctCount,
		TotalQuestions: total,
		Score:          score,
	}, nil
}

// GradeAnswers counts how many submitted answers match the correct answer
// text of their question. Answer keys are decimal question IDs.
func GradeAnswers(questions []model.Question, answers map[string]string) (correct, total int) {
	total = len(questions)
	for _, q := range questions {
		if answers[strconv.FormatUint(uint64(q.ID), 10)] == q.CorrectAnswer {
			correct++
		}
	}
	return correct, total
}

func (s *studentExamService) Dashboard(student *model.User) (*dto.StudentDashboardDTO, error) {
	exams, err := s.visiblePublishedExams(student)
	if err != nil {
		return nil, err
	}
	upcoming := make([]dto.UpcomingExamDTO, 0, 3)
	for _, exam := range exams {
		if len(upcoming) == 3 {
			break
		}
		upcoming = append(upcoming, dto.UpcomingExamDTO{
			ID:       exam.ID,
			Name:     exam.Name,
			Subject:  exam.Subject,
			Duration: exam.Duration,
		})
	}

	recent, err := s.subRepo.FindRecentByUser(student.ID, 2)
	if err != nil {
		log.Error().Err(err).Uint("userID", student.ID).Msg("Dashboard: failed to fetch recent submissions")
		return nil, fmt.Errorf("error fetching recent results: %w", err)
	}
	results := make([]dto.RecentResultDTO, 0, len(recent))
	for _, sub := range recent {
		score := "N/A"
		if sub.Score != nil {
			score = fmt.Sprintf("%.1f%%", *sub.Score)
		}
		results = append(results, dto.RecentResultDTO{
			SubmissionID: sub.ID,
			ExamName:     sub.Exam.Name,
			Subject:      sub.Exam.Subject,
			DateTaken:    sub.SubmittedAt.Format("2006-01-02 15:04"),
			Score:        score,
		})
	}

	return &dto.StudentDashboardDTO{UpcomingExams: upcoming, RecentResults: results}, nil
}

func (s *studentExamService) Profile(student *model.User) *dto.ProfileDTO {
	return &dto.ProfileDTO{ID: student.ID, Username: student.Username, Role: student.Role}
}

func (s *studentExamService) EditProfile(student *model.User, req dto.ProfileEditDTO) (*dto.ProfileEditResponseDTO, error) {
	fieldErrors := map[string]string{}
	var updated []string

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		switch {
		case username == "":
			fieldErrors["username"] = "Username cannot be empty."
		case len(username) < 3:
			fieldErrors["username"] = "Username must be at least 3 characters."
		case username != student.Username:
			existing, err := s.userRepo.FindByUsername(username)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("error checking username: %w", err)
			}
			if existing != nil && existing.ID != student.ID {
				fieldErrors["username"] = "Username already taken."
			} else {
				student.Username = username
				updated = append(updated, "username")
			}
		}
	}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			fieldErrors["password"] = "Password must be at least 6 characters."
		} else {
			if err := student.SetPassword(*req.Password); err != nil {
				return nil, fmt.Errorf("error hashing password: %w", err)
			}
			updated = append(updated, "password")
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &FieldValidationError{Fields: fieldErrors}
	}
	if len(updated) == 0 {
		return &dto.ProfileEditResponseDTO{
			Message: "No changes detected.",
			User:    *s.Profile(student),
		}, nil
	}

	if err := s.userRepo.Update(student); err != nil {
		log.Error().Err(err).Uint("userID", student.ID).Msg("EditProfile: failed to save profile changes")
		return nil, fmt.Errorf("error saving profile changes: %w", err)
	}
	log.Info().Uint("userID", student.ID).Strs("fields", updated).Msg("Profile updated")

	return &dto.ProfileEditResponseDTO{
		Message: fmt.Sprintf("Profile updated (%s changed)", strings.Join(updated, ", ")),
		User:    *s.Profile(student),
	}, nil
}

// visiblePublishedExams filters published exams by group assignment: exams
// with no assigned groups are open to every student.
func (s *studentExamService) visiblePublishedExams(student *model.User) ([]model.Exam, error) {
	exams, err := s.examRepo.FindPublishedWithDetails()
	if err != nil {
		log.Error().Err(err).Msg("visiblePublishedExams: failed to fetch published exams")
		return nil, fmt.Errorf("error fetching available exams: %w", err)
	}
	memberOf, err := s.membershipSet(student)
	if err != nil {
		return nil, err
	}

	visible := make([]model.Exam, 0, len(exams))
	for _, exam := range exams {
		if examOpenTo(exam, memberOf) {
			visible = append(visible, exam)
		}
	}
	return visible, nil
}

func (s *studentExamService) examVisible(student *model.User, exam *model.Exam) (bool, error) {
	memberOf, err := s.membershipSet(student)
	if err != nil {
		return false, err
	}
	return examOpenTo(*exam, memberOf), nil
}

func (s *studentExamService) membershipSet(student *model.User) (map[uint]bool, error) {
	ids, err := s.groupRepo.FindGroupIDsByStudent(student.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching group membership: %w", err)
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func examOpenTo(exam model.Exam, memberOf map[uint]bool) bool {
	if len(exam.AssignedGroups) == 0 {
		return true
	}
	for _, g := range exam.AssignedGroups {
		if memberOf[g.ID] {
			return true
		}
	}
	return false
}
