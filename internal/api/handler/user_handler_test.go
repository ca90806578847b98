package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"animediary/internal/api/apperror"
	"animediary/internal/api/dto"
	"animediary/internal/api/models"
	"animediary/internal/api/service"
)

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	args := m.Called(username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, email, password *string) (*models.User, error) {
	args := m.Called(id, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenService mocks the TokenService interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	mockUsers := new(MockUserService)
	mockTokens := new(MockTokenService)
	h := NewUserHandler(mockUsers, mockTokens, time.Hour)
	router := setupRouter()
	router.POST("/register", h.Register)

	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com"}
	mockUsers.On("Create", "testuser", "test@example.com", "password123").Return(user, nil)

	w := postJSON(router, "/register", dto.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User dto.UserResponse `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "user-123", response.User.ID)
	assert.Equal(t, "testuser", response.User.Username)

	mockUsers.AssertExpectations(t)
}

func TestRegister_ValidationError(t *testing.T) {
	mockUsers := new(MockUserService)
	h := NewUserHandler(mockUsers, new(MockTokenService), time.Hour)
	router := setupRouter()
	router.POST("/register", h.Register)

	mockUsers.On("Create", "ab", "test@example.com", "password123").
		Return(nil, apperror.Validation("username must be at least 3 characters"))

	w := postJSON(router, "/register", dto.RegisterRequest{
		Username: "ab",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUsers.AssertExpectations(t)
}

func TestRegister_Conflict(t *testing.T) {
	mockUsers := new(MockUserService)
	h := NewUserHandler(mockUsers, new(MockTokenService), time.Hour)
	router := setupRouter()
	router.POST("/register", h.Register)

	mockUsers.On("Create", "testuser", "test@example.com", "password123").
		Return(nil, apperror.Conflict("username already exists"))

	w := postJSON(router, "/register", dto.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUsers.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUsers := new(MockUserService)
	mockTokens := new(MockTokenService)
	h := NewUserHandler(mockUsers, mockTokens, time.Hour)
	router := setupRouter()
	router.POST("/login", h.Login)

	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com"}
	mockUsers.On("Authenticate", "testuser", "password123").Return(user, nil)
	mockTokens.On("GenerateAccessToken", user).Return("signed-token", nil)

	w := postJSON(router, "/login", dto.LoginRequest{Username: "testuser", Password: "password123"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed-token", response.AccessToken)
	assert.Equal(t, int64(3600), response.ExpiresIn)
	assert.Equal(t, "user-123", response.User.ID)

	mockUsers.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockUsers := new(MockUserService)
	h := NewUserHandler(mockUsers, new(MockTokenService), time.Hour)
	router := setupRouter()
	router.POST("/login", h.Login)

	mockUsers.On("Authenticate", "testuser", "wrong").Return(nil, nil)

	w := postJSON(router, "/login", dto.LoginRequest{Username: "testuser", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUsers.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	mockUsers := new(MockUserService)
	h := NewUserHandler(mockUsers, new(MockTokenService), time.Hour)
	router := setupRouter()
	router.DELETE("/users/:user_id", h.Delete)

	mockUsers.On("Delete", "missing").Return(false, nil)

	req, _ := http.NewRequest("DELETE", "/users/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUsers.AssertExpectations(t)
}
