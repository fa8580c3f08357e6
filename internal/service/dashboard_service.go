package service

import (
	"fmt"
	"time"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
)

type DashboardService interface {
	AdminStats() (*dto.AdminDashboardStatsDTO, error)
}

type dashboardService struct {
	examRepo repository.ExamRepository
	userRepo repository.UserRepository
	subRepo  repository.SubmissionRepository
}

func NewDashboardService(
	examRepo repository.ExamRepository,
	userRepo repository.UserRepository,
	subRepo repository.SubmissionRepository,
) DashboardService {
	return &dashboardService{examRepo: examRepo, userRepo: userRepo, subRepo: subRepo}
}

func (s *dashboardService) AdminStats() (*dto.AdminDashboardStatsDTO, error) {
	totalExams, err := s.examRepo.CountAll()
	if err != nil {
		log.Error().Err(err).Msg("AdminStats: failed to count exams")
		return nil, fmt.Errorf("error fetching dashboard statistics: %w", err)
	}
	activeExams, err := s.examRepo.CountByStatus(model.ExamStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("error fetching dashboard statistics: %w", err)
	}
	totalStudents, err := s.userRepo.CountStudents()
	if err != nil {
		return nil, fmt.Errorf("error fetching dashboard statistics: %w", err)
	}
	recent, err := s.subRepo.CountSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return nil, fmt.Errorf("error fetching dashboard statistics: %w", err)
	}

	return &dto.AdminDashboardStatsDTO{
		TotalExams:        totalExams,
		ActiveExams:       activeExams,
		TotalStudents:     totalStudents,
		RecentSubmissions: recent,
	}, nil
}
