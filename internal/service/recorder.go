package service

import (
	"context"
	"time"

	"github.com/iliyamo/fake-news-api/internal/queue"
	"github.com/iliyamo/fake-news-api/internal/repository"
)

// PredictionRecord describes one served prediction for audit sinks. It holds
// lengths rather than the submitted text.
type PredictionRecord struct {
	RequestID        string
	Label            string
	Class            int
	Confidence       float64
	TextLength       int
	NormalizedLength int
	CreatedAt        time.Time
}

// NewPredictionRecord builds the record for a prediction on raw.
func NewPredictionRecord(requestID, raw string, p Prediction, at time.Time) PredictionRecord {
	return PredictionRecord{
		RequestID:        requestID,
		Label:            p.Label,
		Class:            p.Class,
		Confidence:       float64(p.Confidence),
		TextLength:       len([]rune(raw)),
		NormalizedLength: len([]rune(p.NormalizedText)),
		CreatedAt:        at.UTC(),
	}
}

// Recorder receives every successful prediction.
type Recorder interface {
	Record(ctx context.Context, rec PredictionRecord) error
}

// HistoryRecorder stores predictions in the history table.
type HistoryRecorder struct {
	Repo *repository.PredictionRepo
}

// Record implements Recorder.
func (h HistoryRecorder) Record(ctx context.Context, rec PredictionRecord) error {
	_, err := h.Repo.Insert(ctx, repository.PredictionRow{
		RequestID:        rec.RequestID,
		Label:            rec.Label,
		Class:            rec.Class,
		Confidence:       rec.Confidence,
		TextLength:       rec.TextLength,
		NormalizedLength: rec.NormalizedLength,
		CreatedAt:        rec.CreatedAt,
	})
	return err
}

func toEvent(rec PredictionRecord) queue.PredictionCompletedEvent {
	return queue.PredictionCompletedEvent{
		RequestID:        rec.RequestID,
		Prediction:       rec.Label,
		Class:            rec.Class,
		Confidence:       rec.Confidence,
		TextLength:       rec.TextLength,
		NormalizedLength: rec.NormalizedLength,
		CompletedAt:      rec.CreatedAt.Format(time.RFC3339Nano),
	}
}

var (
	_ Recorder = HistoryRecorder{}
	_ Recorder = (*PredictionPublisher)(nil)
)
