package dto

// AvailableExamDTO lists one published exam a student may take.
type AvailableExamDTO struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Subject           string `json:"subject"`
	Duration          *int   `json:"duration"`
	QuestionCount     int    `json:"question_count"`
	AllowedAttempts   int    `json:"allowed_attempts"`
	AttemptsRemaining int    `json:"attempts_remaining"`
}

type TakeExamDTO struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	Subject   string               `json:"subject"`
	Duration  *int                 `json:"duration"`
	Questions []StudentQuestionDTO `json:"questions"`
}

type SubmitAnswersDTO struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

type SubmissionResultDTO struct {
	Message        string  `json:"message"`
	SubmissionID   uint    `json:"submissionId"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	Score          float64 `json:"score"`
}

// SubmissionDTO is the wire shape of a stored submission (admin results and
// exports). Field names are camelCase, matching what the result views expect.
type SubmissionDTO struct {
	ID             uint              `json:"id"`
	UserID         uint              `json:"userId"`
	ExamID         uint              `json:"examId"`
	SubmittedAt    string            `json:"submittedAt"`
	Score          *float64          `json:"score"`
	CorrectAnswers *int              `json:"correctAnswers"`
	TotalQuestions int               `json:"totalQuestions"`
	Answers        map[string]string `json:"answers"`
	Username       string            `json:"username"`
	ExamName       string            `json:"examName"`
}

type UpcomingExamDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Duration *int   `json:"duration"`
}

type RecentResultDTO struct {
	SubmissionID uint   `json:"submissionId"`
	ExamName     string `json:"examName"`
	Subject      string `json:"subject"`
	DateTaken    string `json:"dateTaken"`
	Score        string `json:"score"`
}

type StudentDashboardDTO struct {
	UpcomingExams []UpcomingExamDTO `json:"upcomingExams"`
	RecentResults []RecentResultDTO `json:"recentResults"`
}

type ProfileDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ProfileEditDTO struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type ProfileEditResponseDTO struct {
	Message string     `json:"message"`
	User    ProfileDTO `json:"user"`
}
