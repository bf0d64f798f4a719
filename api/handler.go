// Package api exposes the simulator over HTTP for analysts driving
// parameter sweeps programmatically.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gridclear/meritsim/core/logger"
	"github.com/gridclear/meritsim/core/market"
	coremetrics "github.com/gridclear/meritsim/core/metrics"
	"github.com/gridclear/meritsim/core/scenario"
)

// SimulateRequest is the scenario payload for POST /api/v1/simulate.
// Hours defaults to 0..H-1 when omitted.
type SimulateRequest struct {
	Hours      []int                  `json:"hours"`
	Demand     []float64              `json:"demand" binding:"required"`
	Wind       []float64              `json:"wind" binding:"required"`
	Solar      []float64              `json:"solar" binding:"required"`
	GasPrices  []float64              `json:"gas_prices"`
	Generators []market.GeneratorSpec `json:"generators"`
	Policy     *PolicyRequest         `json:"policy"`
}

// PolicyRequest overrides the engine policy per request.
type PolicyRequest struct {
	Curtailment string  `json:"curtailment"`
	PriceCap    float64 `json:"price_cap"`
}

// SimulateResponse carries the cleared run back to the caller.
type SimulateResponse struct {
	RunID   string              `json:"run_id"`
	Summary market.RunSummary   `json:"summary"`
	Results []market.HourResult `json:"results"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail identifies what went wrong.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler serves simulation requests.
type Handler struct {
	log  logger.Logger
	sink coremetrics.ResultSink
}

// NewHandler creates a Handler recording runs on the given sink.
func NewHandler(log logger.Logger, sink coremetrics.ResultSink) *Handler {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Handler{log: log, sink: sink}
}

// NewRouter builds the gin router with the API routes mounted.
func NewRouter(log logger.Logger, sink coremetrics.ResultSink) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	h := NewHandler(log, sink)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	v1 := r.Group("/api/v1")
	v1.POST("/simulate", h.Simulate)
	return r
}

func (req *SimulateRequest) toScenario() *scenario.Scenario {
	hours := req.Hours
	if len(hours) == 0 {
		hours = make([]int, len(req.Demand))
		for i := range hours {
			hours[i] = i
		}
	}
	sc := &scenario.Scenario{
		Demand:     market.Series{Name: "demand", Hours: hours, Values: req.Demand},
		Wind:       market.Series{Name: "wind", Hours: sliceHours(hours, len(req.Wind)), Values: req.Wind},
		Solar:      market.Series{Name: "solar", Hours: sliceHours(hours, len(req.Solar)), Values: req.Solar},
		Generators: req.Generators,
	}
	if len(req.GasPrices) > 0 {
		gp := market.Series{Name: "gas_prices", Hours: sliceHours(hours, len(req.GasPrices)), Values: req.GasPrices}
		sc.GasPrices = &gp
	}
	return sc
}

// sliceHours reuses the demand hour stamps for a companion series of the
// same length. A differing length keeps its own prefix so the aligner
// reports the divergence instead of an index panic.
func sliceHours(hours []int, n int) []int {
	if n == len(hours) {
		return hours
	}
	out := make([]int, n)
	for i := range out {
		if i < len(hours) {
			out[i] = hours[i]
		} else {
			out[i] = hours[len(hours)-1] + (i - len(hours) + 1)
		}
	}
	return out
}

// Simulate handles POST /api/v1/simulate.
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}})
		return
	}

	frame, ladder, err := req.toScenario().Resolve()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errorDetail(err)})
		return
	}

	engine := market.NewEngine()
	if req.Policy != nil {
		if req.Policy.Curtailment != "" {
			engine.Curtailment = market.CurtailmentPolicy(req.Policy.Curtailment)
		}
		engine.PriceCap = req.Policy.PriceCap
	}
	results, err := engine.Run(frame, ladder)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errorDetail(err)})
		return
	}

	resp := SimulateResponse{RunID: uuid.NewString(), Summary: market.Summarize(results), Results: results}
	if err := h.sink.RecordRun(coremetrics.RunRecord{
		RunID:   resp.RunID,
		Time:    time.Now(),
		Results: resp.Results,
		Summary: resp.Summary,
	}); err != nil {
		h.log.Errorf("record run %s: %v", resp.RunID, err)
	}
	c.JSON(http.StatusOK, resp)
}

func errorDetail(err error) ErrorDetail {
	var aerr *market.AlignmentError
	if errors.As(err, &aerr) {
		return ErrorDetail{Code: "ALIGNMENT_ERROR", Message: err.Error()}
	}
	var serr *market.SpecError
	if errors.As(err, &serr) {
		return ErrorDetail{Code: "INVALID_SPEC", Message: err.Error()}
	}
	return ErrorDetail{Code: "SIMULATION_ERROR", Message: err.Error()}
}
