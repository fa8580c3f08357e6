package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
)

// RespondError translates service-layer errors into HTTP responses so every
// controller maps the same error to the same status code.
func RespondError(ctx *gin.Context, err error) {
	var notFound *service.NotFoundError
	var forbidden *service.ForbiddenError
	var conflict *service.ConflictError
	var fieldErr *service.FieldValidationError
	var validation *service.ValidationError

	switch {
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: notFound.Message})
	case errors.As(err, &forbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: forbidden.Message})
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: conflict.Message})
	case errors.As(err, &fieldErr):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Update failed.", Errors: fieldErr.Fields})
	case errors.As(err, &validation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: validation.Message})
	case errors.Is(err, service.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid credentials"})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "Internal server error",
			Details: []string{err.Error()},
		})
	}
}

// BindError reports a request-body binding failure.
func BindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}
