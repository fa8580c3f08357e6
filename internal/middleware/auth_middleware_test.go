package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/service"
	"gorm.io/gorm"
)

type stubAuthService struct {
	claims *service.Claims
	err    error
}

func (s *stubAuthService) Login(dto.LoginRequest) (*dto.LoginResponse, error) { return nil, nil }
func (s *stubAuthService) Register(dto.RegisterRequest) error                 { return nil }
func (s *stubAuthService) ParseToken(string) (*service.Claims, error)         { return s.claims, s.err }

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) Create(*model.User) error          { return nil }
func (r *stubUserRepo) FindAll() ([]model.User, error)    { return nil, nil }
func (r *stubUserRepo) FindStudents() ([]model.User, error) { return nil, nil }
func (r *stubUserRepo) Update(*model.User) error          { return nil }
func (r *stubUserRepo) CountStudents() (int64, error)     { return 0, nil }
func (r *stubUserRepo) FindByUsername(string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubUserRepo) FindByID(uint) (*model.User, error) {
	if r.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.user, nil
}

func protectedRouter(auth *stubAuthService, repo *stubUserRepo, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/secure")
	group.Use(Authenticate(auth, repo))
	if role != "" {
		group.Use(RequireRole(role))
	}
	group.GET("/ping", func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		ctx.String(http.StatusOK, user.Username)
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingToken(t *testing.T) {
	r := protectedRouter(&stubAuthService{}, &stubUserRepo{}, "")
	if w := doRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	r := protectedRouter(&stubAuthService{}, &stubUserRepo{}, "")
	if w := doRequest(r, "Token abc"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	auth := &stubAuthService{err: errors.New("expired")}
	r := protectedRouter(auth, &stubUserRepo{}, "")
	if w := doRequest(r, "Bearer bad"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateLoadsUser(t *testing.T) {
	user := &model.User{ID: 1, Username: "sam", Role: model.RoleStudent}
	auth := &stubAuthService{claims: &service.Claims{UserID: 1, Role: model.RoleStudent}}
	r := protectedRouter(auth, &stubUserRepo{user: user}, "")

	w := doRequest(r, "Bearer good")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "sam" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestRequireRoleBlocksWrongRole(t *testing.T) {
	user := &model.User{ID: 1, Username: "sam", Role: model.RoleStudent}
	auth := &stubAuthService{claims: &service.Claims{UserID: 1, Role: model.RoleStudent}}
	r := protectedRouter(auth, &stubUserRepo{user: user}, model.RoleAdmin)

	if w := doRequest(r, "Bearer good"); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	auth := &stubAuthService{claims: &service.Claims{UserID: 9}}
	r := protectedRouter(auth, &stubUserRepo{}, "")
	if w := doRequest(r, "Bearer good"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
