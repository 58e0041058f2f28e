package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/app"
	"github.com/lifedash/questlog/internal/config"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(&config.Config{
		AppEnv:         "development",
		DBDriver:       "sqlite",
		DBConnection:   ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite",
		MigrateOnStart: true,
		JWTSecret:      "secret",
		JWTExpiry:      time.Hour,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestSetupRoutes(t *testing.T) {
	a := newTestApp(t)
	handler := SetupRoutes(a)

	token, err := a.AuthService.GenerateJWT(7)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   bool
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", false, http.StatusOK},
		{"goals need auth", http.MethodGet, "/api/goals", "", false, http.StatusUnauthorized},
		{"goals with token", http.MethodGet, "/api/goals", "", true, http.StatusOK},
		{"create goal", http.MethodPost, "/api/goals", `{"activityType":"DSA","period":"WEEKLY","targetValue":5}`, true, http.StatusOK},
		{"feed", http.MethodGet, "/api/activities/feed", "", true, http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", "", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}
