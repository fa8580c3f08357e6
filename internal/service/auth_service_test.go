package service

import (
	"errors"
	"testing"

	"github.com/haimq/examhub/config"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
)

func newAuthService(t *testing.T, userRepo *fakeUserRepo) AuthService {
	t.Helper()
	return NewAuthService(userRepo, &config.Config{JWTSecret: "test-secret"})
}

func seedAccount(t *testing.T, repo *fakeUserRepo, username, password, role string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Role: role}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return user
}

func TestLoginIssuesParsableToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedAccount(t, userRepo, "sam", "secret123", model.RoleStudent)
	svc := newAuthService(t, userRepo)

	resp, err := svc.Login(dto.LoginRequest{Username: "sam", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Role != model.RoleStudent {
		t.Errorf("role = %q", resp.Role)
	}

	claims, err := svc.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleStudent {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedAccount(t, userRepo, "sam", "secret123", model.RoleStudent)
	svc := newAuthService(t, userRepo)

	_, err := svc.Login(dto.LoginRequest{Username: "sam", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo())

	_, err := svc.Login(dto.LoginRequest{Username: "ghost", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterCreatesStudent(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newAuthService(t, userRepo)

	if err := svc.Register(dto.RegisterRequest{Username: "newbie", Password: "secret123"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	user, err := userRepo.FindByUsername("newbie")
	if err != nil {
		t.Fatalf("registered user not stored: %v", err)
	}
	if user.Role != model.RoleStudent {
		t.Errorf("self-registration must create a student, got %q", user.Role)
	}
	if !user.CheckPassword("secret123") {
		t.Error("stored password hash does not verify")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo())

	err := svc.Register(dto.RegisterRequest{Username: "ab", Password: "secret123"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("short username: expected ValidationError, got %v", err)
	}

	err = svc.Register(dto.RegisterRequest{Username: "abc", Password: "short"})
	if !errors.As(err, &validation) {
		t.Fatalf("short password: expected ValidationError, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedAccount(t, userRepo, "sam", "secret123", model.RoleStudent)
	svc := newAuthService(t, userRepo)

	err := svc.Register(dto.RegisterRequest{Username: "sam", Password: "secret123"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedAccount(t, userRepo, "sam", "secret123", model.RoleStudent)
	svc := newAuthService(t, userRepo)

	resp, err := svc.Login(dto.LoginRequest{Username: "sam", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := NewAuthService(userRepo, &config.Config{JWTSecret: "different-secret"})
	if _, err := other.ParseToken(resp.Token); err == nil {
		t.Error("token signed with another secret must not parse")
	}
}
