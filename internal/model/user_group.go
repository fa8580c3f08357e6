package model

import (
	"time"

	"gorm.io/gorm"
)

type UserGroup struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string         `json:"description,omitempty" gorm:"size:255"`
	Students    []User         `json:"students,omitempty" gorm:"many2many:user_group_memberships;"`
	Exams       []Exam         `json:"exams,omitempty" gorm:"many2many:exam_group_assignments;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
