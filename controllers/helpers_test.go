package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityplus-be/models"
	"cityplus-be/stores"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asCaller stands in for the auth middleware and injects an identity.
func asCaller(id primitive.ObjectID, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_role", role)
		c.Next()
	}
}

func seedUser(t *testing.T, users stores.UserStore, name, email string, role models.Role, status models.AccountStatus) models.User {
	t.Helper()
	user, err := users.Create(context.Background(), models.User{
		Name:   name,
		Email:  email,
		Role:   role,
		Status: status,
	})
	require.NoError(t, err)
	return user
}

func seedIssue(t *testing.T, issues stores.IssueStore, reporter primitive.ObjectID) models.Issue {
	t.Helper()
	issue, err := issues.Create(context.Background(), models.Issue{
		Title:       "Broken streetlight",
		Category:    "Electricity",
		Ward:        "Ward 12",
		Location:    "Main St & 4th Ave",
		Priority:    models.PriorityHigh,
		Description: "The light has been out for a week.",
		Status:      models.StatusOpen,
		Citizen:     reporter,
	})
	require.NoError(t, err)
	return issue
}

func jsonRequest(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func formRequest(t *testing.T, r *gin.Engine, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dataObject(t *testing.T, body map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	obj, ok := data[key].(map[string]interface{})
	require.True(t, ok, "data has no %q object", key)
	return obj
}

func dataList(t *testing.T, body map[string]interface{}, key string) []interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	list, ok := data[key].([]interface{})
	require.True(t, ok, "data has no %q list", key)
	return list
}
