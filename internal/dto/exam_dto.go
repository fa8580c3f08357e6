package dto

import "time"

// QuestionPayloadDTO carries one question in exam create/update requests.
// The correct answer travels as option text, never as an index.
type QuestionPayloadDTO struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// ExamSaveDTO is the request body for both exam creation and full update.
type ExamSaveDTO struct {
	Name            string               `json:"name"`
	Subject         string               `json:"subject"`
	Duration        *int                 `json:"duration"`
	Status          string               `json:"status"`
	AllowedAttempts int                  `json:"allowed_attempts"`
	Questions       []QuestionPayloadDTO `json:"questions"`
	GroupIDs        []uint               `json:"group_ids"`
}

type QuestionResponseDTO struct {
	ID            uint     `json:"id"`
	ExamID        uint     `json:"exam_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// StudentQuestionDTO is a question as seen by a student taking the exam:
// the correct answer is stripped.
type StudentQuestionDTO struct {
	ID      uint     `json:"id"`
	ExamID  uint     `json:"exam_id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type GroupRefDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ExamSummaryDTO struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Subject         string    `json:"subject"`
	Duration        *int      `json:"duration"`
	Status          string    `json:"status"`
	AllowedAttempts int       `json:"allowed_attempts"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type ExamDetailDTO struct {
	ID              uint                  `json:"id"`
	Name            string                `json:"name"`
	Subject         string                `json:"subject"`
	Duration        *int                  `json:"duration"`
	Status          string                `json:"status"`
	AllowedAttempts int                   `json:"allowed_attempts"`
	QuestionCount   int                   `json:"question_count"`
	Questions       []QuestionResponseDTO `json:"questions"`
	AssignedGroups  []GroupRefDTO         `json:"assigned_groups"`
	CreatedAt       time.Time             `json:"created_at"`
}

// PagedExamsDTO wraps the admin exam list; pages are one-based.
type PagedExamsDTO struct {
	Items    []ExamSummaryDTO `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type GenerateQuestionsRequest struct {
	Topic string `json:"topic" binding:"required"`
	Count int    `json:"count" binding:"required,min=1,max=20"`
}

// GeneratedQuestionDTO is an AI-drafted question; it is returned to the
// operator for review and never persisted directly.
type GeneratedQuestionDTO struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}
