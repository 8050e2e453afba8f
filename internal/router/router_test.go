package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/handler"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/pkg/auth"
)

type routerFixture struct {
	engine *gin.Engine
	tokens *auth.TokenIssuer
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenIssuer(auth.TokenConfig{Secret: "router-secret", TTL: time.Minute})
	metrics := service.NewMetricsService()
	authSvc := service.NewAuthService(service.AuthRepositories{}, auth.NewPasswordHasher(4), tokens, nil, metrics, nil, nil, service.AuthConfig{})

	h := Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(service.NewStudentService(nil, nil, nil, nil)),
		Mentors:     handler.NewMentorHandler(service.NewMentorService(nil, nil, nil, nil, nil)),
		Employers:   handler.NewEmployerHandler(service.NewEmployerService(nil, nil, nil, nil)),
		Placements:  handler.NewPlacementHandler(service.NewPlacementService(nil, nil, nil, nil)),
		Evaluations: handler.NewEvaluationHandler(service.NewEvaluationService(nil, nil, nil)),
		Reports:     handler.NewReportHandler(service.NewReportService(nil, metrics, nil, nil, nil)),
		Metrics:     handler.NewMetricsHandler(metrics, nil),
	}
	engine := New(h, authSvc, metrics, Options{APIPrefix: "/api/v1", EnableMetrics: true})
	return routerFixture{engine: engine, tokens: tokens}
}

func (f routerFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t)
	routes := [][2]string{
		{http.MethodGet, "/api/v1/me"},
		{http.MethodGet, "/api/v1/students"},
		{http.MethodPatch, "/api/v1/mentors/1"},
		{http.MethodPut, "/api/v1/mentors/1/students"},
		{http.MethodDelete, "/api/v1/employers/1"},
		{http.MethodPost, "/api/v1/placements"},
		{http.MethodGet, "/api/v1/evaluations/1"},
		{http.MethodGet, "/api/v1/reports/placements_per_employer"},
		{http.MethodGet, "/api/v1/reports/placements-per-employer"},
		{http.MethodGet, "/api/v1/metrics/summary"},
	}
	for _, route := range routes {
		rec := f.do(route[0], route[1], "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route[1])
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"), route[1])
	}
}

func TestRegistrationIsPublic(t *testing.T) {
	f := newRouterFixture(t)
	for _, path := range []string{"/api/v1/students", "/api/v1/mentors", "/api/v1/employers", "/api/v1/token"} {
		rec := f.do(http.MethodPost, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestValidTokenPassesGuard(t *testing.T) {
	f := newRouterFixture(t)
	token, _, err := f.tokens.Issue("ana@example.test")
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/api/v1/students/abc", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/metrics/summary", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportRouteSpellings(t *testing.T) {
	f := newRouterFixture(t)
	token, _, err := f.tokens.Issue("ana@example.test")
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/reports/placements_per_employer", "/api/v1/reports/placements-per-employer"} {
		rec := f.do(http.MethodGet, path+"?format=xml", token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR", path)
	}
}

func TestOpsRoutes(t *testing.T) {
	f := newRouterFixture(t)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/docs/index.html", "").Code)
}
