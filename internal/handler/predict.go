package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fake-news-api/internal/metrics"
	"github.com/iliyamo/fake-news-api/internal/service"
)

// recordTimeout bounds the time spent on audit sinks for one prediction.
const recordTimeout = 2 * time.Second

// Predictor classifies one raw document.
type Predictor interface {
	Predict(ctx context.Context, raw string) (service.Prediction, error)
}

// PredictResponse is the success body of /predict.
type PredictResponse struct {
	Prediction string             `json:"prediction"`
	Confidence service.Confidence `json:"confidence"`
}

// ErrorResponse is the body of client errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PredictHandler serves /predict.
type PredictHandler struct {
	Predictor Predictor
	Recorders []service.Recorder
	Metrics   *metrics.Metrics
	Log       *zap.Logger

	pending sync.WaitGroup
}

// NewPredictHandler constructs a PredictHandler and panics if p is nil.
func NewPredictHandler(p Predictor, m *metrics.Metrics, log *zap.Logger, recorders ...service.Recorder) *PredictHandler {
	if p == nil {
		panic("nil predictor passed to NewPredictHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PredictHandler{Predictor: p, Recorders: recorders, Metrics: m, Log: log}
}

// Predict validates the body, classifies the text and returns the label with
// its confidence. Failures inside the model are returned to echo's error
// handler and surface as 500.
func (h *PredictHandler) Predict(c echo.Context) error {
	req, err := ParsePredictRequest(c.Request().Body)
	if err != nil {
		if errors.Is(err, ErrTextRequired) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: TextRequiredMessage})
		}
		return err
	}

	ctx := c.Request().Context()
	p, err := h.Predictor.Predict(ctx, req.Text)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, PredictResponse{Prediction: p.Label, Confidence: p.Confidence}); err != nil {
		return err
	}

	h.Metrics.ObservePrediction(p.Label, float64(p.Confidence))
	h.record(ctx, requestID(c), req.Text, p)
	return nil
}

// record hands the prediction to the sinks in the background so the client
// never waits on them.
func (h *PredictHandler) record(ctx context.Context, id, raw string, p service.Prediction) {
	if len(h.Recorders) == 0 {
		return
	}
	rec := service.NewPredictionRecord(id, raw, p, time.Now())
	ctx = context.WithoutCancel(ctx)

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, recordTimeout)
		defer cancel()
		for _, r := range h.Recorders {
			if err := r.Record(ctx, rec); err != nil {
				h.Log.Warn("record prediction failed", zap.String("request_id", id), zap.Error(err))
			}
		}
	}()
}

// Wait blocks until every in-flight record has finished or ctx is done.
func (h *PredictHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
