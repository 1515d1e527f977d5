package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icook/tiny-flipper/db"
	"github.com/icook/tiny-flipper/engine"
	"github.com/icook/tiny-flipper/identity"
	"github.com/icook/tiny-flipper/storage/mem"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	eng := engine.New(db.NewStore(mem.NewMemStore()),
		engine.WithLogger(log),
		engine.WithMetrics(engine.NewMetrics(reg)),
	)
	return NewRouter(eng, APIConfig{Logger: log, Gatherer: reg})
}

func do(t *testing.T, r http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func deploy(t *testing.T, r http.Handler, caller, body string) contractResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/contracts", caller, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out contractResponse
	decode(t, w, &out)
	return out
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestDeploy(t *testing.T) {
	r := newTestRouter(t)

	t.Run("default", func(t *testing.T) {
		out := deploy(t, r, "alice", "")
		assert.False(t, out.Value)
		assert.Equal(t, identity.Alice().String(), out.Owner)
		assert.NotEmpty(t, out.ID)
	})

	t.Run("with init value", func(t *testing.T) {
		out := deploy(t, r, identity.Bob().String(), `{"init_value": true}`)
		assert.True(t, out.Value)
		assert.Equal(t, identity.Bob().String(), out.Owner)
	})

	t.Run("missing caller", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/contracts", "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad caller", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/contracts", "mallory", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/contracts", "alice", `{"init_value": "yes"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFlip(t *testing.T) {
	r := newTestRouter(t)
	c := deploy(t, r, "alice", `{"init_value": false}`)
	path := "/contracts/" + c.ID

	w := do(t, r, http.MethodPost, path+"/flip", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"value":true}`, w.Body.String())

	w = do(t, r, http.MethodPost, path+"/flip", "bob", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"OnlyOwnerCanFlip"}`, w.Body.String())

	w = do(t, r, http.MethodGet, path+"/value", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"value":true}`, w.Body.String())

	w = do(t, r, http.MethodPost, path+"/flip", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDescribe(t *testing.T) {
	r := newTestRouter(t)
	c := deploy(t, r, "charlie", `{"init_value": true}`)
	path := "/contracts/" + c.ID

	t.Run("no caller", func(t *testing.T) {
		w := do(t, r, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var out contractResponse
		decode(t, w, &out)
		assert.Equal(t, c, out)
	})

	t.Run("valid caller", func(t *testing.T) {
		w := do(t, r, http.MethodGet, path, "bob", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid caller", func(t *testing.T) {
		w := do(t, r, http.MethodGet, path, "mallory", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var out errorResponse
		decode(t, w, &out)
		assert.Contains(t, out.Error, "mallory")

		w = do(t, r, http.MethodGet, path+"/value", "mallory", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(t)
	id := identity.NewContractID().String()

	w := do(t, r, http.MethodGet, "/contracts/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/contracts/"+id+"/flip", "alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/contracts/not-a-uuid/value", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/contracts/"+id+"/value", "mallory", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	deploy(t, r, "alice", "")

	w := do(t, r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flipper_deployments_total 1")
}
