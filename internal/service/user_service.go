package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// userColumns is the required header set for bulk user spreadsheets.
var userColumns = []string{"username", "password"}

type UserService interface {
	ListStudents(search string) ([]dto.UserResponseDTO, error)
	ListUsers() ([]dto.UserResponseDTO, error)
	CreateUser(req dto.UserCreateDTO) (*dto.UserResponseDTO, error)
	ImportUsers(filename string, r io.Reader) (*dto.ImportResultDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListStudents(search string) ([]dto.UserResponseDTO, error) {
	students, err := s.userRepo.FindStudents()
	if err != nil {
		log.Error().Err(err).Msg("ListStudents: repository error")
		return nil, fmt.Errorf("error fetching students: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]dto.UserResponseDTO, 0, len(students))
	for _, u := range students {
		if needle != "" && !strings.Contains(strings.ToLower(u.Username), needle) {
			continue
		}
		out = append(out, userResponseDTO(u))
	}
	return out, nil
}

func (s *userService) ListUsers() ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("ListUsers: repository error")
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	out := make([]dto.UserResponseDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userResponseDTO(u))
	}
	return out, nil
}

func (s *userService) CreateUser(req dto.UserCreateDTO) (*dto.UserResponseDTO, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, &ValidationError{Message: "Username must be at least 3 characters long"}
	}
	if len(req.Password) < 6 {
		return nil, &ValidationError{Message: "Password must be at least 6 characters long"}
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, &ConflictError{Message: "Username already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	user := model.User{Username: username, Role: req.Role}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("CreateUser: failed to persist user")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Str("username", username).Str("role", user.Role).Msg("User created")

	resp := userResponseDTO(user)
	return &resp, nil
}

// ImportUsers bulk-creates student accounts from an uploaded spreadsheet,
// with the same reconciliation rules as the question import: a missing header
// rejects the file, bad rows are skipped individually.
func (s *userService) ImportUsers(filename string, r io.Reader) (*dto.ImportResultDTO, error) {
	rows, err := parseSpreadsheet(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Message: "The uploaded file is empty."}
	}

	index, missing := headerIndex(rows[0], userColumns)
	if len(missing) > 0 {
		return nil, &ValidationError{
			Message: fmt.Sprintf("File is missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	imported := 0
	var rowErrors []string
	for i, row := range rows[1:] {
		rowNum := i + 2

		username := cellAt(row, index["username"])
		password := cellAt(row, index["password"])
		if username == "" && password == "" {
			continue
		}

		if len(username) < 3 {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: username must be at least 3 characters.", rowNum))
			continue
		}
		if len(password) < 6 {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: password must be at least 6 characters.", rowNum))
			continue
		}
		if _, err := s.userRepo.FindByUsername(username); err == nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: username %q already exists.", rowNum, username))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("error checking username: %w", err)
		}

		user := model.User{Username: username, Role: model.RoleStudent}
		if err := user.SetPassword(password); err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		if err := s.userRepo.Create(&user); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: could not create user %q.", rowNum, username))
			log.Error().Err(err).Str("username", username).Msg("ImportUsers: failed to create user")
			continue
		}
		imported++
	}

	for _, rowErr := range rowErrors {
		log.Warn().Str("file", filename).Msg("ImportUsers: " + rowErr)
	}
	log.Info().Int("imported", imported).Int("skipped", len(rowErrors)).Msg("User import completed")

	return &dto.ImportResultDTO{
		Message:  fmt.Sprintf("%d users imported, %d rows had errors", imported, len(rowErrors)),
		Imported: imported,
		Skipped:  len(rowErrors),
		Errors:   rowErrors,
	}, nil
}

func userResponseDTO(u model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}
