package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// Healthz is the health endpoint for the server
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "Ok"})
}
