package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/haimq/examhub/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const userContextKey = "currentUser"

// Authenticate validates the bearer token and loads the account it belongs to
// into the request context.
func Authenticate(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Token is missing"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Bearer token malformed"})
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Token is invalid or expired"})
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Account no longer exists"})
				return
			}
			log.Error().Err(err).Uint("userID", claims.UserID).Msg("Authenticate: failed to load user")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
			return
		}

		ctx.Set(userContextKey, user)
		ctx.Next()
	}
}

// RequireRole guards a route group behind a single role.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil || user.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Insufficient permissions"})
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the authenticated account, or nil when the request
// did not pass through Authenticate.
func CurrentUser(ctx *gin.Context) *model.User {
	value, ok := ctx.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
