package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/controller"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminExamController struct {
	examService   service.AdminExamService
	importService service.QuestionImportService
	exportService service.ResultExportService
	draftService  service.QuestionDraftService
}

func NewAdminExamController(
	examService service.AdminExamService,
	importService service.QuestionImportService,
	exportService service.ResultExportService,
	draftService service.QuestionDraftService,
) *AdminExamController {
	return &AdminExamController{
		examService:   examService,
		importService: importService,
		exportService: exportService,
		draftService:  draftService,
	}
}

// idParam parses a positive integer path parameter.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: fmt.Sprintf("Invalid %s format", name)})
		return 0, false
	}
	return uint(val), true
}

// ListExams godoc
// @Summary (Admin) List exams
// @Description Paginated exam list with optional name/subject search
// @Tags Admin - Exams
// @Produce json
// @Param search query string false "Filter by name or subject"
// @Param page query int false "Page number, one-based"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PagedExamsDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/exams [get]
func (c *AdminExamController) ListExams(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "0"))

	resp, err := c.examService.ListExams(ctx.Query("search"), page, pageSize)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetExam godoc
// @Summary (Admin) Get one exam with questions and group assignments
// @Tags Admin - Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.ExamDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exams/{id} [get]
func (c *AdminExamController) GetExam(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.examService.GetExam(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateExam godoc
// @Summary (Admin) Create an exam with its full question set
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Param exam body dto.ExamSaveDTO true "Exam data including questions and group assignments"
// @Success 201 {object} dto.ExamDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/exams [post]
func (c *AdminExamController) CreateExam(ctx *gin.Context) {
	var req dto.ExamSaveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateExam: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.examService.CreateExam(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateExam godoc
// @Summary (Admin) Replace an exam's metadata, questions and group assignments
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param exam body dto.ExamSaveDTO true "Full exam payload"
// @Success 200 {object} dto.ExamDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exams/{id} [put]
func (c *AdminExamController) UpdateExam(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ExamSaveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("UpdateExam: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.examService.UpdateExam(id, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteExam godoc
// @Summary (Admin) Delete an exam along with its questions and submissions
// @Tags Admin - Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exams/{id} [delete]
func (c *AdminExamController) DeleteExam(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	name, err := c.examService.DeleteExam(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Exam %q deleted successfully.", name)})
}

// GetExamResults godoc
// @Summary (Admin) List all submissions for an exam
// @Tags Admin - Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {array} dto.SubmissionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exams/{id}/results [get]
func (c *AdminExamController) GetExamResults(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.examService.GetExamResults(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ImportQuestions godoc
// @Summary (Admin) Import questions into an exam from CSV or XLSX
// @Description Appends valid rows to the exam. Bad rows are skipped and reported; a missing header column rejects the whole file.
// @Tags Admin - Exams
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Exam ID"
// @Param file formData file true "CSV or XLSX file with columns question, option1..option4, correct_answer"
// @Success 200 {object} dto.ImportResultDTO
// @Failure 400 {object} dto.ErrorResponse "Unsupported file type or missing columns"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exams/{id}/import [post]
func (c *AdminExamController) ImportQuestions(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file uploaded. Attach a CSV or XLSX file under the \"file\" field."})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("ImportQuestions: could not open upload")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Could not read the uploaded file"})
		return
	}
	defer file.Close()

	resp, err := c.importService.ImportQuestions(id, fileHeader.Filename, file)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DownloadTemplate godoc
// @Summary (Admin) Download the question import template
// @Description XLSX template with the required columns and one example row
// @Tags Admin - Exams
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /admin/questions/template [get]
func (c *AdminExamController) DownloadTemplate(ctx *gin.Context) {
	f, err := c.importService.Template()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="question_import_template.xlsx"`)
	ctx.Header("Content-Type", xlsxContentType)
	if err := f.Write(ctx.Writer); err != nil {
		log.Error().Err(err).Msg("DownloadTemplate: failed to stream workbook")
	}
}

// ExportResults godoc
// @Summary (Admin) Export an exam's results as an XLSX workbook
// @Description Class summary sheet plus one detail sheet per submission
// @Tags Admin - Exams
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Exam ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exams/{id}/export [get]
func (c *AdminExamController) ExportResults(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	data, filename, err := c.exportService.ExportExamResults(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// GenerateQuestions godoc
// @Summary (Admin) Draft multiple-choice questions with AI
// @Description Returns drafts for review; nothing is saved until the admin includes them in an exam
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Topic and question count"
// @Success 200 {array} dto.GeneratedQuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Drafting not configured or invalid request"
// @Router /admin/questions/generate [post]
func (c *AdminExamController) GenerateQuestions(ctx *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateQuestions: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	drafts, err := c.draftService.DraftQuestions(ctx.Request.Context(), req.Topic, req.Count)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, drafts)
}
