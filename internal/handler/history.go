package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fake-news-api/internal/repository"
)

// HistoryHandler exposes stored predictions.
type HistoryHandler struct {
	Repo *repository.PredictionRepo
}

// ListRecent returns the newest predictions. A missing or non-numeric ?limit
// means 20; any other value is clamped to [1, 100].
func (h *HistoryHandler) ListRecent(c echo.Context) error {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	switch {
	case err != nil:
		limit = 20
	case limit < 1:
		limit = 1
	case limit > 100:
		limit = 100
	}

	items, err := h.Repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "database_error",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "limit": limit})
}

// Get returns the prediction stored for a request id.
func (h *HistoryHandler) Get(c echo.Context) error {
	row, err := h.Repo.GetByRequestID(c.Request().Context(), c.Param("request_id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "database_error",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, row)
}
