package repository

import (
	"github.com/haimq/examhub/internal/model"
	"gorm.io/gorm"
)

// ExamWithCount carries an exam plus its question count for list views.
type ExamWithCount struct {
	model.Exam
	QuestionCount int
}

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindByIDWithDetails(id uint) (*model.Exam, error)
	FindAllWithQuestionCount(search string, offset, limit int) ([]ExamWithCount, int64, error)
	FindPublishedWithDetails() ([]model.Exam, error)
	Update(exam *model.Exam) error
	Delete(id uint) error
	ReplaceQuestions(examID uint, questions []model.Question) error
	ReplaceGroups(exam *model.Exam, groups []model.UserGroup) error
	CountAll() (int64, error)
	CountByStatus(status model.ExamStatus) (int64, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	// Associated questions and group assignments are created in one go.
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithDetails(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("AssignedGroups").
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAllWithQuestionCount(search string, offset, limit int) ([]ExamWithCount, int64, error) {
	query := r.db.Model(&model.Exam{}).Where("exams.deleted_at IS NULL")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("exams.name ILIKE ? OR exams.subject ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []ExamWithCount
	query = query.
		Select("exams.*, (SELECT COUNT(*) FROM questions WHERE questions.exam_id = exams.id AND questions.deleted_at IS NULL) as question_count").
		Order("exams.id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Scan(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *examRepository) FindPublishedWithDetails() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.
		Preload("Questions").
		Preload("AssignedGroups").
		Where("status = ?", model.ExamStatusPublished).
		Order("id desc").
		Find(&exams).Error
	return exams, err
}

func (r *examRepository) Update(exam *model.Exam) error {
	return r.db.Omit("Questions", "AssignedGroups", "Submissions").Save(exam).Error
}

func (r *examRepository) Delete(id uint) error {
	return r.db.Select("Questions", "Submissions").Delete(&model.Exam{ID: id}).Error
}

// ReplaceQuestions swaps the exam's full question set, matching the edit
// form's save semantics.
func (r *examRepository) ReplaceQuestions(examID uint, questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", examID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ExamID = examID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *examRepository) ReplaceGroups(exam *model.Exam, groups []model.UserGroup) error {
	return r.db.Model(exam).Association("AssignedGroups").Replace(groups)
}

func (r *examRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Exam{}).Count(&count).Error
	return count, err
}

func (r *examRepository) CountByStatus(status model.ExamStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Exam{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
