package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration(email string) map[string]string {
	return map[string]string{
		"name":            "Test User",
		"email":           email,
		"password":        "Password123!",
		"confirmPassword": "Password123!",
	}
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	t.Run("created then conflict", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		rec := h.do(t, http.MethodPost, "/api/v1/auth/register", "", registration("new@example.com"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "User registered successfully", body["message"])
		assert.NotContains(t, rec.Body.String(), "Password123!")

		stored, err := h.users.GetByEmail(context.Background(), "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, stored.Role)
		assert.NotEqual(t, "Password123!", stored.HashedPassword)

		rec = h.do(t, http.MethodPost, "/api/v1/auth/register", "", registration("new@example.com"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		body = decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User already registered", body["error"])
		assert.NotEmpty(t, body["trace_id"])
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		missing := registration("a@b.com")
		delete(missing, "confirmPassword")
		rec := h.do(t, http.MethodPost, "/api/v1/auth/register", "", missing)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "All fields are required", decodeBody(t, rec)["error"])

		weak := registration("a@b.com")
		weak["password"], weak["confirmPassword"] = "password123!", "password123!"
		rec = h.do(t, http.MethodPost, "/api/v1/auth/register", "", weak)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		badRole := registration("a@b.com")
		badRole["role"] = "root"
		rec = h.do(t, http.MethodPost, "/api/v1/auth/register", "", badRole)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid role", decodeBody(t, rec)["error"])

		rec = h.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request format", decodeBody(t, rec)["error"])
	})
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/api/v1/auth/register", "", registration("login@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("success sets cookie", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"email": "login@example.com", "password": "Password123!"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Logged in successfully", body["message"])
		token, _ := body["token"].(string)
		require.NotEmpty(t, token)

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "login@example.com", user["email"])
		assert.Equal(t, "user", user["role"])
		assert.NotContains(t, user, "password")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, "token", cookie.Name)
		assert.Equal(t, token, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, "/", cookie.Path)
		assert.False(t, cookie.Secure)

		claims, err := h.jwt.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "login@example.com", claims.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"email": "nobody@example.com", "password": "Password123!"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "User is not registered")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"email": "login@example.com", "password": "Wrong123!"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Password is incorrect", decodeBody(t, rec)["error"])
	})

	t.Run("short password", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"email": "login@example.com", "password": "abc"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
