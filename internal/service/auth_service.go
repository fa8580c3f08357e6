package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/haimq/examhub/config"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

// Claims is the JWT payload attached to every authenticated request.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Register(req dto.RegisterRequest) error
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login: failed to look up user")
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to sign token")
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &dto.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *authService) Register(req dto.RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return &ValidationError{Message: "Username must be at least 3 characters long"}
	}
	if len(req.Password) < 6 {
		return &ValidationError{Message: "Password must be at least 6 characters long"}
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return &ConflictError{Message: "Username already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking username: %w", err)
	}

	user := model.User{Username: username, Role: model.RoleStudent}
	if err := user.SetPassword(req.Password); err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Register: failed to create user")
		return fmt.Errorf("registration failed: %w", err)
	}
	log.Info().Str("username", username).Msg("Student registered")
	return nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}
