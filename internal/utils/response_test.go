// internal/utils/response_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestConflictResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ConflictResponse(c, "an editor with this username or email already exists")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestForbiddenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ForbiddenResponse(c, "only a coordinator may review applications")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	// Empty message falls back to the default.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	ForbiddenResponse(c, "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}

func TestGetRoleFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	role, ok := GetRoleFromContext(c)
	assert.False(t, ok)
	assert.Equal(t, "", role)

	c.Set("role", "coordinator")
	role, ok = GetRoleFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "coordinator", role)

	c.Set("role", 42)
	role, ok = GetRoleFromContext(c)
	assert.False(t, ok)
	assert.Equal(t, "", role)
}
