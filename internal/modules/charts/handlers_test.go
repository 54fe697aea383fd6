package charts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEquityCurve(t *testing.T) {
	service := NewService(&MockTradeSource{trades: makeTrades(3, 100)}, 10000, zerolog.Nop())
	handler := NewHandlers(service, zerolog.Nop())

	req := httptest.NewRequest("GET", "/api/charts/equity", nil)
	w := httptest.NewRecorder()
	handler.HandleEquityCurve(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var points []EquityPoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	require.Len(t, points, 3)
	assert.Equal(t, float64(10300), points[2].Balance)
}

func TestHandleEquityCurve_InvalidPeriod(t *testing.T) {
	service := NewService(&MockTradeSource{}, 10000, zerolog.Nop())
	handler := NewHandlers(service, zerolog.Nop())

	for _, param := range []string{"1", "0", "-5", "abc"} {
		req := httptest.NewRequest("GET", "/api/charts/equity?period="+param, nil)
		w := httptest.NewRecorder()
		handler.HandleEquityCurve(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "period=%s", param)
	}
}

func TestHandleEquityCurve_CustomPeriod(t *testing.T) {
	service := NewService(&MockTradeSource{trades: makeTrades(5, 100)}, 10000, zerolog.Nop())
	handler := NewHandlers(service, zerolog.Nop())

	req := httptest.NewRequest("GET", "/api/charts/equity?period=3", nil)
	w := httptest.NewRecorder()
	handler.HandleEquityCurve(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var points []EquityPoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	require.Len(t, points, 5)
	require.NotNil(t, points[2].SMA)
	assert.Equal(t, float64(10200), *points[2].SMA)
}
