package dto

import "time"

type GroupSaveDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type StudentRefDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type GroupSummaryDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type GroupDetailDTO struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Students    []StudentRefDTO `json:"students"`
	Exams       []ExamRefDTO    `json:"exams,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ExamRefDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AddGroupStudentDTO struct {
	StudentID uint `json:"student_id" binding:"required"`
}
