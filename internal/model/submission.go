package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AnswerMap stores the question-id to selected-answer map as a JSON text column.
type AnswerMap map[string]string

func (a AnswerMap) Value() (driver.Value, error) {
	b, err := json.Marshal(map[string]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *AnswerMap) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("unsupported type %T for AnswerMap", value)
}

type ExamSubmission struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	UserID              uint           `json:"user_id" gorm:"not null;index"`
	Student             User           `json:"student,omitempty" gorm:"foreignKey:UserID"`
	ExamID              uint           `json:"exam_id" gorm:"not null;index"`
	Exam                Exam           `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	SubmittedAt         time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	Score               *float64       `json:"score"` // 0-100 scale; nil when never graded
	CorrectAnswersCount *int           `json:"correct_answers_count"`
	TotalQuestionsCount int            `json:"total_questions_count" gorm:"not null"`
	Answers             AnswerMap      `json:"answers" gorm:"type:text"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}
