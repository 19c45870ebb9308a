package controllers

import (
	"log/slog"
	"net/http"

	"todo-ai/app/models"
)

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	encodeJSON(slog.Default(), w, http.StatusOK, models.HealthResponse{Status: "healthy"})
}
