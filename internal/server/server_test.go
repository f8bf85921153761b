package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.Test,
		ServerHost:  "127.0.0.1",
		ServerPort:  "0",
		BaseURL:     "http://localhost:8080",
	}
}

func TestNew(t *testing.T) {
	db := testhelpers.NewSQLite(t)
	srv := New(testConfig(), zap.NewNop().Sugar(), api.Deps{DB: db, Log: zap.NewNop().Sugar()})
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLifecycle(t *testing.T) {
	db := testhelpers.NewSQLite(t)
	srv := New(testConfig(), zap.NewNop().Sugar(), api.Deps{DB: db, Log: zap.NewNop().Sugar()})

	lc := fxtest.NewLifecycle(t)
	Register(lc, srv)
	lc.RequireStart()

	resp, err := http.Get("http://" + srv.Addr() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	lc.RequireStop()

	_, err = http.Get("http://" + srv.Addr() + "/api/health")
	assert.Error(t, err)
}
