package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthStatus is the fixed liveness message.
const HealthStatus = "Fake News API running"

// Health reports process liveness for load balancers and monitoring. It does
// not look at the model: artifacts are loaded before the listener starts.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": HealthStatus})
}
