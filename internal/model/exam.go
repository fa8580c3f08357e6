package model

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "Draft"
	ExamStatusPublished ExamStatus = "Published"
	ExamStatusArchived  ExamStatus = "Archived"
)

// Valid reports whether s is one of the closed status set.
func (s ExamStatus) Valid() bool {
	switch s {
	case ExamStatusDraft, ExamStatusPublished, ExamStatusArchived:
		return true
	}
	return false
}

type Exam struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Name            string           `json:"name" gorm:"size:150;not null"`
	Subject         string           `json:"subject" gorm:"size:100"`
	Duration        *int             `json:"duration"` // minutes; nil means untimed
	Status          ExamStatus       `json:"status" gorm:"size:20;not null;default:'Draft'"`
	AllowedAttempts int              `json:"allowed_attempts" gorm:"not null;default:1"`
	Questions       []Question       `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssignedGroups  []UserGroup      `json:"assigned_groups,omitempty" gorm:"many2many:exam_group_assignments;"`
	Submissions     []ExamSubmission `json:"-" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}
