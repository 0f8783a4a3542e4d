package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityplus-be/models"
	"cityplus-be/stores"
	"cityplus-be/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seedUser(t *testing.T, users *stores.MemoryUserStore, role models.Role, status models.AccountStatus) models.User {
	t.Helper()
	user, err := users.Create(context.Background(), models.User{
		Name:   "Test User",
		Email:  string(role) + "@example.com",
		Role:   role,
		Status: status,
	})
	require.NoError(t, err)
	return user
}

func authRouter(tokens *utils.TokenManager, users *stores.MemoryUserStore, roles ...models.Role) *gin.Engine {
	auth := NewAuthMiddleware(tokens, users)
	r := gin.New()

	handlers := []gin.HandlerFunc{auth.RequireAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, auth.RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := CallerID(c)
		role, _ := CallerRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id.Hex(), "role": role})
	})

	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestRequireAuthMissingToken(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	r := authRouter(tokens, stores.NewMemoryUserStore())

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token, authorization denied", message(t, w))
}

func TestRequireAuthBadToken(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	r := authRouter(tokens, stores.NewMemoryUserStore())

	w := get(r, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token invalid or expired", message(t, w))
}

func TestRequireAuthUnknownUser(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	r := authRouter(tokens, stores.NewMemoryUserStore())

	// Valid signature, but the account no longer exists.
	token, err := tokens.Generate("64f1b2a3c4d5e6f708192a3b", "citizen")
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not found", message(t, w))
}

func TestRequireAuthActiveUser(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	users := stores.NewMemoryUserStore()
	user := seedUser(t, users, models.RoleStaff, models.StatusActive)
	r := authRouter(tokens, users)

	token, err := tokens.Generate(user.ID.Hex(), string(user.Role))
	require.NoError(t, err)

	w := get(r, token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, user.ID.Hex(), body["id"])
	assert.Equal(t, "staff", body["role"])
}

func TestTokenRejectedAfterBlock(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	users := stores.NewMemoryUserStore()
	user := seedUser(t, users, models.RoleCitizen, models.StatusActive)
	r := authRouter(tokens, users)

	token, err := tokens.Generate(user.ID.Hex(), string(user.Role))
	require.NoError(t, err)

	// Works while the account is active.
	w := get(r, token)
	require.Equal(t, http.StatusOK, w.Code)

	// The same token dies on the very next request after the block.
	_, err = users.UpdateStatus(context.Background(), user.ID, models.StatusBlocked)
	require.NoError(t, err)

	w = get(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Your account has been blocked. Please contact support.", message(t, w))
}

func TestTokenRejectedAfterTermination(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	users := stores.NewMemoryUserStore()
	user := seedUser(t, users, models.RoleCitizen, models.StatusActive)
	r := authRouter(tokens, users)

	token, err := tokens.Generate(user.ID.Hex(), string(user.Role))
	require.NoError(t, err)

	_, err = users.UpdateStatus(context.Background(), user.ID, models.StatusTerminated)
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Your account has been terminated. Please contact support.", message(t, w))
}

func TestRequireRolesDeniesOtherRole(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	users := stores.NewMemoryUserStore()
	citizen := seedUser(t, users, models.RoleCitizen, models.StatusActive)
	r := authRouter(tokens, users, models.RoleAdmin)

	token, err := tokens.Generate(citizen.ID.Hex(), string(citizen.Role))
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", message(t, w))
}

func TestRequireRolesAllowsListedRoles(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	users := stores.NewMemoryUserStore()
	staff := seedUser(t, users, models.RoleStaff, models.StatusActive)
	r := authRouter(tokens, users, models.RoleStaff, models.RoleAdmin)

	token, err := tokens.Generate(staff.ID.Hex(), string(staff.Role))
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
