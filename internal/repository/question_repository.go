package repository

import (
	"github.com/haimq/examhub/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	CreateBatch(questions []model.Question) error
	FindByExamID(examID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *questionRepository) FindByExamID(examID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("exam_id = ?", examID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
