package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Service.AdminAddr = ""
	c := NewConfig(&cfg)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 25000, c.LagWarnMS)
}

func TestMux(t *testing.T) {
	state := service.NewState()
	mux := NewMux(Config{LagWarnMS: 1000}, state)

	assert.Equal(t, http.StatusOK, get(mux, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(mux, "/readyz").Code)

	w := get(mux, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, false, out["ready"])
	assert.Nil(t, out["lagMs"])
	assert.Equal(t, true, out["lagOk"])

	state.Ingested(0, time.Now())
	assert.Equal(t, http.StatusOK, get(mux, "/readyz").Code)
	assert.True(t, state.LastSpin().IsZero(), "пустой ingest не двигает время спина")

	state.Ingested(2, time.Now().Add(-5*time.Second))
	state.SetFeedConnected(true)
	require.NoError(t, sonic.Unmarshal(get(mux, "/healthz").Body.Bytes(), &out))
	assert.Equal(t, true, out["ready"])
	assert.Equal(t, true, out["feedConnected"])
	assert.EqualValues(t, 2, out["ingests"])
	assert.Equal(t, false, out["lagOk"])
	assert.GreaterOrEqual(t, out["lagMs"].(float64), 5000.0)
}
