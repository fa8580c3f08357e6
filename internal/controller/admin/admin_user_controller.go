package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/controller"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminUserController struct {
	userService service.UserService
}

func NewAdminUserController(userService service.UserService) *AdminUserController {
	return &AdminUserController{userService: userService}
}

// ListStudents godoc
// @Summary (Admin) List student accounts
// @Tags Admin - Users
// @Produce json
// @Param search query string false "Filter by username substring"
// @Success 200 {array} dto.UserResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/students [get]
func (c *AdminUserController) ListStudents(ctx *gin.Context) {
	resp, err := c.userService.ListStudents(ctx.Query("search"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListUsers godoc
// @Summary (Admin) List all accounts
// @Tags Admin - Users
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (c *AdminUserController) ListUsers(ctx *gin.Context) {
	resp, err := c.userService.ListUsers()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateUser godoc
// @Summary (Admin) Create an account with an explicit role
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateDTO true "Username, password and role"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /admin/users [post]
func (c *AdminUserController) CreateUser(ctx *gin.Context) {
	var req dto.UserCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateUser: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.userService.CreateUser(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ImportUsers godoc
// @Summary (Admin) Bulk-create student accounts from CSV or XLSX
// @Description Columns username and password are required; bad rows are skipped and reported
// @Tags Admin - Users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} dto.ImportResultDTO
// @Failure 400 {object} dto.ErrorResponse "Unsupported file type or missing columns"
// @Router /admin/users/import [post]
func (c *AdminUserController) ImportUsers(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file uploaded. Attach a CSV or XLSX file under the \"file\" field."})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("ImportUsers: could not open upload")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Could not read the uploaded file"})
		return
	}
	defer file.Close()

	resp, err := c.userService.ImportUsers(fileHeader.Filename, file)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
