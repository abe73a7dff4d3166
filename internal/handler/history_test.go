package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fake-news-api/internal/repository"
)

func TestHistory_ListRecentLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"?limit=abc", 20},
		{"?limit=0", 1},
		{"?limit=-5", 1},
		{"?limit=7", 7},
		{"?limit=101", 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery("SELECT (.+) FROM predictions ORDER BY").
				WithArgs(tt.want).
				WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "label", "class", "confidence", "text_length", "normalized_length", "created_at"}))

			h := &HistoryHandler{Repo: repository.NewPredictionRepo(db)}
			e := echo.New()
			e.GET("/v1/predictions", h.ListRecent)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/predictions"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"limit":%d`, tt.want))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
