package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamly/project-management-api/internal/auth"
	"github.com/teamly/project-management-api/internal/constants"
	"github.com/teamly/project-management-api/internal/dto"
	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/repository"
	"github.com/teamly/project-management-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db      *gorm.DB
	handler *AuthHandler
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	tokens := auth.NewTokenManager("test-secret")
	authService := services.NewAuthService(userRepo, tokens)

	return authTestEnv{
		db:      db,
		handler: NewAuthHandler(authService),
	}
}

func testContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if userID != 0 {
		c.Set(constants.ContextKeyUserID, userID)
	}

	return c, w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"email":     "alice@example.com",
		"full_name": "Alice Doe",
		"password":  "correct horse battery",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/auth/register", body, 0)
	env.handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)
	require.Equal(t, "alice@example.com", response.User.Email)

	// Second registration with the same email conflicts.
	c, w = testContext(http.MethodPost, "/api/auth/register", body, 0)
	env.handler.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	c, w := testContext(http.MethodPost, "/api/auth/register", []byte(`{"email":"x"`), 0)
	env.handler.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupAuthTestEnv(t)

	registerBody, err := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.NoError(t, err)
	c, w := testContext(http.MethodPost, "/api/auth/register", registerBody, 0)
	env.handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = testContext(http.MethodPost, "/api/auth/login", registerBody, 0)
	env.handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	badBody, err := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.NoError(t, err)
	c, w = testContext(http.MethodPost, "/api/auth/login", badBody, 0)
	env.handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var user models.User
	require.NoError(t, env.db.First(&user).Error)

	c, w = testContext(http.MethodGet, "/api/auth/me", nil, user.ID)
	env.handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, user.ID, me.ID)
}
