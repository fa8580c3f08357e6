package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/controller"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminGroupController struct {
	groupService service.UserGroupService
}

func NewAdminGroupController(groupService service.UserGroupService) *AdminGroupController {
	return &AdminGroupController{groupService: groupService}
}

// ListGroups godoc
// @Summary (Admin) List user groups with member counts
// @Tags Admin - Groups
// @Produce json
// @Success 200 {array} dto.GroupSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/groups [get]
func (c *AdminGroupController) ListGroups(ctx *gin.Context) {
	resp, err := c.groupService.ListGroups()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetGroup godoc
// @Summary (Admin) Get one group with its members and assigned exams
// @Tags Admin - Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} dto.GroupDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/groups/{id} [get]
func (c *AdminGroupController) GetGroup(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.groupService.GetGroup(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateGroup godoc
// @Summary (Admin) Create a user group
// @Tags Admin - Groups
// @Accept json
// @Produce json
// @Param group body dto.GroupSaveDTO true "Group name and description"
// @Success 201 {object} dto.GroupDetailDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Group name already taken"
// @Router /admin/groups [post]
func (c *AdminGroupController) CreateGroup(ctx *gin.Context) {
	var req dto.GroupSaveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateGroup: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.groupService.CreateGroup(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateGroup godoc
// @Summary (Admin) Rename a group or change its description
// @Tags Admin - Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param group body dto.GroupSaveDTO true "New name and description"
// @Success 200 {object} dto.GroupDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Group name already taken"
// @Router /admin/groups/{id} [put]
func (c *AdminGroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.GroupSaveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("UpdateGroup: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.groupService.UpdateGroup(id, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteGroup godoc
// @Summary (Admin) Delete a group
// @Description Removes the group and its memberships; student accounts are kept
// @Tags Admin - Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/groups/{id} [delete]
func (c *AdminGroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	name, err := c.groupService.DeleteGroup(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Group %q deleted successfully.", name)})
}

// AddStudent godoc
// @Summary (Admin) Add a student to a group
// @Tags Admin - Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param member body dto.AddGroupStudentDTO true "Student ID to add"
// @Success 200 {object} dto.GroupDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Student already in group"
// @Router /admin/groups/{id}/students [post]
func (c *AdminGroupController) AddStudent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AddGroupStudentDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("AddStudent: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.groupService.AddStudent(id, req.StudentID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RemoveStudent godoc
// @Summary (Admin) Remove a student from a group
// @Tags Admin - Groups
// @Produce json
// @Param id path int true "Group ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.GroupDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/groups/{id}/students/{studentId} [delete]
func (c *AdminGroupController) RemoveStudent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := idParam(ctx, "studentId")
	if !ok {
		return
	}

	resp, err := c.groupService.RemoveStudent(id, studentID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
