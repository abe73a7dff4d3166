package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// PredictionRow mirrors the 'predictions' table.
type PredictionRow struct {
	ID               uint64    `json:"id"`
	RequestID        string    `json:"request_id"`
	Label            string    `json:"prediction"`
	Class            int       `json:"class"`
	Confidence       float64   `json:"confidence"`
	TextLength       int       `json:"text_length"`
	NormalizedLength int       `json:"normalized_length"`
	CreatedAt        time.Time `json:"created_at"`
}

// PredictionRepo stores served predictions.
type PredictionRepo struct{ DB *sql.DB }

func NewPredictionRepo(db *sql.DB) *PredictionRepo { return &PredictionRepo{DB: db} }

const mysqlDuplicateEntry = 1062

const predictionColumns = "id,request_id,label,class,confidence,text_length,normalized_length,created_at"

// Insert stores row and returns its ID.
func (r *PredictionRepo) Insert(ctx context.Context, row PredictionRow) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO predictions (request_id,label,class,confidence,text_length,normalized_length,created_at) VALUES (?,?,?,?,?,?,?)",
		row.RequestID, row.Label, row.Class, row.Confidence, row.TextLength, row.NormalizedLength, row.CreatedAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListRecent returns up to limit rows, newest first.
func (r *PredictionRepo) ListRecent(ctx context.Context, limit int) ([]PredictionRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+predictionColumns+" FROM predictions ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PredictionRow, 0, limit)
	for rows.Next() {
		var p PredictionRow
		if err := rows.Scan(&p.ID, &p.RequestID, &p.Label, &p.Class, &p.Confidence, &p.TextLength, &p.NormalizedLength, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByRequestID fetches the prediction served for a request id.
func (r *PredictionRepo) GetByRequestID(ctx context.Context, requestID string) (PredictionRow, error) {
	var p PredictionRow
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+predictionColumns+" FROM predictions WHERE request_id=? LIMIT 1", requestID).
		Scan(&p.ID, &p.RequestID, &p.Label, &p.Class, &p.Confidence, &p.TextLength, &p.NormalizedLength, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}
