package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
)

func TestImportUsersCreatesStudents(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo)

	csv := "username,password\nalice,password1\nbob,password2\n"
	res, err := svc.ImportUsers("students.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportUsers returned error: %v", err)
	}
	if res.Message != "2 users imported, 0 rows had errors" {
		t.Errorf("unexpected message: %q", res.Message)
	}

	for _, name := range []string{"alice", "bob"} {
		user, err := userRepo.FindByUsername(name)
		if err != nil {
			t.Fatalf("user %q not created: %v", name, err)
		}
		if user.Role != model.RoleStudent {
			t.Errorf("bulk import must create students, got %q for %q", user.Role, name)
		}
	}
}

func TestImportUsersSkipsBadRows(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedAccount(t, userRepo, "taken", "password1", model.RoleStudent)
	svc := NewUserService(userRepo)

	csv := "username,password\n" +
		"ok,password1\n" +
		"ab,password1\n" + // username too short
		"short,bad\n" + // password too short
		"taken,password1\n" // duplicate

	res, err := svc.ImportUsers("students.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportUsers returned error: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 3 {
		t.Fatalf("got imported=%d skipped=%d, want 1/3", res.Imported, res.Skipped)
	}
	if res.Errors[0] != "Row 3: username must be at least 3 characters." {
		t.Errorf("unexpected first error: %q", res.Errors[0])
	}
}

func TestImportUsersMissingColumns(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.ImportUsers("students.csv", strings.NewReader("username\nalice\n"))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Message != "File is missing required columns: password" {
		t.Errorf("unexpected message: %q", validation.Message)
	}
}

func TestCreateUserWithRole(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo)

	resp, err := svc.CreateUser(dto.UserCreateDTO{Username: "chief", Password: "secret123", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if resp.Role != model.RoleAdmin {
		t.Errorf("role = %q", resp.Role)
	}
}

func TestListStudentsFilters(t *testing.T) {
	userRepo := newFakeUserRepo(
		&model.User{ID: 1, Username: "alice", Role: model.RoleStudent},
		&model.User{ID: 2, Username: "bob", Role: model.RoleStudent},
		&model.User{ID: 3, Username: "root", Role: model.RoleAdmin},
	)
	svc := NewUserService(userRepo)

	all, err := svc.ListStudents("")
	if err != nil {
		t.Fatalf("ListStudents returned error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 students (admins excluded), got %d", len(all))
	}

	filtered, err := svc.ListStudents("ALI")
	if err != nil {
		t.Fatalf("ListStudents returned error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Username != "alice" {
		t.Errorf("case-insensitive search failed: %+v", filtered)
	}
}
