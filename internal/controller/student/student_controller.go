package student

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/controller"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/middleware"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
)

type StudentController struct {
	studentService service.StudentExamService
}

func NewStudentController(studentService service.StudentExamService) *StudentController {
	return &StudentController{studentService: studentService}
}

func examIDParam(ctx *gin.Context) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return 0, false
	}
	return uint(val), true
}

// AvailableExams godoc
// @Summary (Student) List published exams available to me
// @Description Only exams open to everyone or assigned to one of my groups, with remaining attempt counts
// @Tags Student
// @Produce json
// @Success 200 {array} dto.AvailableExamDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /student/exams/available [get]
func (c *StudentController) AvailableExams(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	resp, err := c.studentService.AvailableExams(user)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// TakeExam godoc
// @Summary (Student) Fetch an exam for taking
// @Description Questions are returned without correct answers
// @Tags Student
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.TakeExamDTO
// @Failure 403 {object} dto.ErrorResponse "Exam not assigned to my groups"
// @Failure 404 {object} dto.ErrorResponse
// @Router /student/exam/{id}/take [get]
func (c *StudentController) TakeExam(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}
	user := middleware.CurrentUser(ctx)
	resp, err := c.studentService.TakeExam(user, id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitExam godoc
// @Summary (Student) Submit my answers for an exam
// @Description Grades immediately and stores the submission
// @Tags Student
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param answers body dto.SubmitAnswersDTO true "Answers keyed by question ID"
// @Success 200 {object} dto.SubmissionResultDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt limit reached or exam unavailable"
// @Failure 404 {object} dto.ErrorResponse
// @Router /student/exam/{id}/submit [post]
func (c *StudentController) SubmitExam(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}
	var req dto.SubmitAnswersDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitExam: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	resp, err := c.studentService.SubmitExam(user, id, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary (Student) My dashboard
// @Description Upcoming exams I can still take and my most recent results
// @Tags Student
// @Produce json
// @Success 200 {object} dto.StudentDashboardDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /student/dashboard [get]
func (c *StudentController) Dashboard(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	resp, err := c.studentService.Dashboard(user)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Profile godoc
// @Summary (Student) My profile
// @Tags Student
// @Produce json
// @Success 200 {object} dto.ProfileDTO
// @Router /student/profile [get]
func (c *StudentController) Profile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	ctx.JSON(http.StatusOK, c.studentService.Profile(user))
}

// EditProfile godoc
// @Summary (Student) Update my username or password
// @Description Field-level validation errors come back in the errors map
// @Tags Student
// @Accept json
// @Produce json
// @Param profile body dto.ProfileEditDTO true "Fields to change; omitted fields are kept"
// @Success 200 {object} dto.ProfileEditResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failed, per-field messages in errors"
// @Router /student/profile [put]
func (c *StudentController) EditProfile(ctx *gin.Context) {
	var req dto.ProfileEditDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("EditProfile: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	resp, err := c.studentService.EditProfile(user, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
