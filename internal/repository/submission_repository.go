package repository

import (
	"time"

	"github.com/haimq/examhub/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(submission *model.ExamSubmission) error
	FindByExamID(examID uint) ([]model.ExamSubmission, error)
	FindRecentByUser(userID uint, limit int) ([]model.ExamSubmission, error)
	CountByUserAndExam(userID, examID uint) (int64, error)
	CountSince(since time.Time) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.ExamSubmission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindByExamID(examID uint) ([]model.ExamSubmission, error) {
	var subs []model.ExamSubmission
	err := r.db.
		Preload("Student").
		Preload("Exam").
		Where("exam_id = ?", examID).
		Order("submitted_at desc").
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) FindRecentByUser(userID uint, limit int) ([]model.ExamSubmission, error) {
	var subs []model.ExamSubmission
	err := r.db.
		Preload("Exam").
		Where("user_id = ?", userID).
		Order("submitted_at desc").
		Limit(limit).
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) CountByUserAndExam(userID, examID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamSubmission{}).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamSubmission{}).
		Where("submitted_at >= ?", since).
		Count(&count).Error
	return count, err
}
