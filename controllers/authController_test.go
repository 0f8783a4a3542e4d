package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityplus-be/models"
	"cityplus-be/stores"
	"cityplus-be/utils"
)

func newAuthRouter(users stores.UserStore) (*gin.Engine, *utils.TokenManager) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	ac := NewAuthController(users, tokens, nil)

	r := gin.New()
	r.POST("/api/auth/register", ac.RegisterCitizen)
	r.POST("/api/auth/register-staff", ac.RegisterStaff)
	r.POST("/api/auth/register-admin", ac.RegisterAdmin)
	r.POST("/api/auth/login", ac.Login)
	return r, tokens
}

func TestRegisterCitizen(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Citizen registered successfully", body["message"])

	user := dataObject(t, body, "user")
	assert.Equal(t, "Asha Rao", user["name"])
	assert.Equal(t, "citizen", user["role"])
	assert.NotContains(t, user, "password")

	stored, err := users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
	// Stored as a bcrypt hash, never plaintext.
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.True(t, stored.ComparePassword("hunter22"))
}

func TestRegisterRoleComesFromEndpoint(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register-staff", gin.H{
		"name":     "Field Crew",
		"email":    "crew@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := users.GetByEmail(context.Background(), "crew@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, stored.Role)
}

func TestRegisterValidation(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	cases := []gin.H{
		{"email": "asha@example.com", "password": "hunter22"},         // no name
		{"name": "Asha", "password": "hunter22"},                      // no email
		{"name": "Asha", "email": "asha@example.com"},                 // no password
		{"name": "Asha", "email": "not-an-email", "password": "hunter22"},
		{"name": "Asha", "email": "asha@example.com", "password": "abc"}, // too short
	}
	for _, payload := range cases {
		w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "All fields are required", decodeBody(t, w)["message"])
	}

	counts, err := users.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	payload := gin.H{"name": "Asha Rao", "email": "asha@example.com", "password": "hunter22"}

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same email again, even for a different role, conflicts and creates
	// nothing.
	w = jsonRequest(t, r, http.MethodPost, "/api/auth/register-admin", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, w)["message"])

	counts, err := users.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Total)
}

func registerAndLogin(t *testing.T, r *gin.Engine, email, password string) map[string]interface{} {
	t.Helper()
	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Asha Rao", "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = jsonRequest(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody(t, w)
}

func TestLoginSuccess(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, tokens := newAuthRouter(users)

	body := registerAndLogin(t, r, "asha@example.com", "hunter22")
	assert.Equal(t, "Login successful", body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "citizen", data["role"])
	assert.Equal(t, "Asha Rao", data["name"])

	claims, err := tokens.Verify(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "citizen", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Asha Rao", "email": "asha@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = jsonRequest(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "asha@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["message"])
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	r, _ := newAuthRouter(stores.NewMemoryUserStore())

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["message"])
}

func TestLoginBlockedAccount(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Asha Rao", "email": "asha@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	_, err = users.UpdateStatus(context.Background(), stored.ID, models.StatusBlocked)
	require.NoError(t, err)

	// The restriction message wins no matter what password was typed.
	for _, password := range []string{"hunter22", "wrong-password"} {
		w = jsonRequest(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email": "asha@example.com", "password": password,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Your account has been blocked. Please contact support.", decodeBody(t, w)["message"])
	}
}

func TestLoginTerminatedAccount(t *testing.T) {
	users := stores.NewMemoryUserStore()
	r, _ := newAuthRouter(users)

	w := jsonRequest(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Asha Rao", "email": "asha@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	_, err = users.UpdateStatus(context.Background(), stored.ID, models.StatusTerminated)
	require.NoError(t, err)

	w = jsonRequest(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "asha@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Your account has been terminated. Please contact support.", decodeBody(t, w)["message"])
}
