package handler

import "net/http"

// HealthHandler handles the connectivity test endpoint the frontend polls.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Test(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Hello from the account API"})
}
