// internal/router/router_test.go
package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/grantdesk/grantdesk-backend/internal/config"
)

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	suite.router = Initialize(nil, cfg)
}

func (suite *RouterTestSuite) TestHealthCheck() {
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "healthy")
}

func (suite *RouterTestSuite) TestApplicationsRequireAuth() {
	req, _ := http.NewRequest("GET", "/v1/applications", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *RouterTestSuite) TestEvaluateRequiresCoordinator() {
	req, _ := http.NewRequest("POST", "/v1/applications/00000000-0000-0000-0000-000000000001/evaluate", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	// No token at all: rejected before the coordinator check.
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *RouterTestSuite) TestPartnerDetailIsPublic() {
	req, _ := http.NewRequest("GET", "/v1/partners/not-a-uuid", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	// Public route: bad input is rejected by the handler, not by auth.
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
