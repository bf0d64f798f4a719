package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridclear/meritsim/core/logger"
	"github.com/gridclear/meritsim/core/market"
	coremetrics "github.com/gridclear/meritsim/core/metrics"
)

type captureSink struct {
	records []coremetrics.RunRecord
}

func (c *captureSink) RecordRun(rec coremetrics.RunRecord) error {
	c.records = append(c.records, rec)
	return nil
}

func postSimulate(t *testing.T, router http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validRequest() SimulateRequest {
	return SimulateRequest{
		Demand: []float64{40, 100, 200},
		Wind:   []float64{30, 30, 10},
		Solar:  []float64{20, 20, 10},
		Generators: []market.GeneratorSpec{
			{Name: "base", CapacityMW: 40, Efficiency: 1, FuelPricePencePerTherm: 29.307175},
			{Name: "peaker", CapacityMW: 30, Efficiency: 1, FuelPricePencePerTherm: 58.614350},
		},
	}
}

func TestSimulate(t *testing.T) {
	sink := &captureSink{}
	router := NewRouter(logger.Nop{}, sink)

	w := postSimulate(t, router, validRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.NotEmpty(t, resp.RunID)
	assert.Zero(t, resp.Results[0].PriceGBPPerMWh)
	assert.Greater(t, resp.Results[2].ShortageMWh, 0.0)
	assert.Equal(t, 1, resp.Summary.ShortageHours)

	require.Len(t, sink.records, 1)
	assert.Equal(t, resp.RunID, sink.records[0].RunID)
}

func TestSimulateMisaligned(t *testing.T) {
	router := NewRouter(logger.Nop{}, nil)

	req := validRequest()
	req.Wind = req.Wind[:2]
	w := postSimulate(t, router, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ALIGNMENT_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "wind")
}

func TestSimulateInvalidGenerator(t *testing.T) {
	router := NewRouter(logger.Nop{}, nil)

	req := validRequest()
	req.Generators[0].Efficiency = 0
	w := postSimulate(t, router, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_SPEC", resp.Error.Code)
}

func TestSimulateMissingBody(t *testing.T) {
	router := NewRouter(logger.Nop{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestSimulatePolicyOverride(t *testing.T) {
	router := NewRouter(logger.Nop{}, nil)

	req := validRequest()
	req.Generators = nil
	req.Policy = &PolicyRequest{PriceCap: 150}
	w := postSimulate(t, router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// No thermal fleet: every undersupplied hour clears at the cap.
	assert.Equal(t, 150.0, resp.Results[2].PriceGBPPerMWh)
}

func TestHealthz(t *testing.T) {
	router := NewRouter(logger.Nop{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
