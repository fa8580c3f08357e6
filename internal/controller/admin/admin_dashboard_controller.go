package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/controller"
	"github.com/haimq/examhub/internal/service"
)

type AdminDashboardController struct {
	dashboardService service.DashboardService
}

func NewAdminDashboardController(dashboardService service.DashboardService) *AdminDashboardController {
	return &AdminDashboardController{dashboardService: dashboardService}
}

// Stats godoc
// @Summary (Admin) Dashboard statistics
// @Description Exam counts, student count and submissions in the last 24 hours
// @Tags Admin - Dashboard
// @Produce json
// @Success 200 {object} dto.AdminDashboardStatsDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/dashboard [get]
func (c *AdminDashboardController) Stats(ctx *gin.Context) {
	resp, err := c.dashboardService.AdminStats()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
