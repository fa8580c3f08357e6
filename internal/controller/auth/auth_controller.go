package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/controller"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login godoc
// @Summary Log in with username and password
// @Description Exchanges credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username and password"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Login: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.authService.Login(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register a new student account
// @Description Creates a student account; admin accounts are provisioned separately
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.RegisterRequest true "Desired username and password"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or weak credentials"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: Failed to bind JSON")
		controller.BindError(ctx, err)
		return
	}

	if err := c.authService.Register(req); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "Account created successfully. Please log in."})
}
