package auth

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
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/pkg/jwt"
	"courier/internal/pkg/logger"
	"courier/internal/repository"
	"courier/internal/repository/repotest"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *repository.CustomerRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := repotest.NewDB(t)
	customers := repository.NewCustomerRepository(db)
	tokens := jwt.New("test-secret", time.Hour)
	h := NewHandler(NewService(customers, tokens, logger.Discard()))

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	h.RegisterProtectedRoutes(protected)
	return r, customers
}

func call(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) AuthResult {
	t.Helper()
	var env struct {
		Data AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data
}

func TestHandler_RegisterLoginMe(t *testing.T) {
	r, customers := setupTestRouter(t)

	rr := call(r, http.MethodPost, "/api/v1/auth/register", "", validRegister())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	registered := decodeResult(t, rr)
	assert.NotEmpty(t, registered.Token)
	assert.NotContains(t, rr.Body.String(), "passwordHash")

	rr = call(r, http.MethodPost, "/api/v1/auth/register", "", validRegister())
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = call(r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Login: registered.Customer.UniqueID, Password: "secret123"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	token := decodeResult(t, rr).Token

	rr = call(r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Login: "asha@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(r, http.MethodPost, "/api/v1/auth/officer/login", "", LoginRequest{Login: "asha@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = call(r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = call(r, http.MethodPatch, "/api/v1/auth/me", token, gin.H{"address": "99 Church Street, Bangalore", "email": "ignored@example.com"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err := customers.GetByID(context.Background(), registered.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "99 Church Street, Bangalore", stored.Address)
	assert.Equal(t, "asha@example.com", stored.Email)
	assert.Equal(t, domain.RoleCustomer, stored.Role)

	rr = call(r, http.MethodPost, "/api/v1/auth/me/password", token, ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "changed1", ConfirmPassword: "changed1",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = call(r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Login: "asha@example.com", Password: "changed1"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_RegisterReportsEveryInvalidField(t *testing.T) {
	r, _ := setupTestRouter(t)

	req := validRegister()
	req.Email = "not-an-email"
	req.Password = "abc"
	req.ConfirmPassword = "abc"
	rr := call(r, http.MethodPost, "/api/v1/auth/register", "", req)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	var env struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Field  string            `json:"field"`
				Fields map[string]string `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details.Fields, "email")
	assert.Contains(t, env.Error.Details.Fields, "password")
	assert.Contains(t, env.Error.Details.Fields, env.Error.Details.Field)
}
