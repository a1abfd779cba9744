package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/elysian/account-api/internal/application/account"
	"github.com/elysian/account-api/internal/domain"
	"github.com/elysian/account-api/internal/pkg/validate"
)

// FederatedHandler handles google/facebook sign-in endpoints.
// Both upsert on first sight: 201 for a newly registered claim, 200 for an
// existing account.
type FederatedHandler struct {
	svc account.Service
}

func NewFederatedHandler(svc account.Service) *FederatedHandler {
	return &FederatedHandler{svc: svc}
}

func (h *FederatedHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	u, created, err := h.svc.GoogleLogin(r.Context(), body.Token)
	if err != nil {
		federatedError(w, err)
		return
	}
	writeFederated(w, u, created)
}

func (h *FederatedHandler) FacebookLogin(w http.ResponseWriter, r *http.Request) {
	var claim domain.FacebookClaim
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&claim); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, created, err := h.svc.FacebookLogin(r.Context(), claim)
	if err != nil {
		federatedError(w, err)
		return
	}
	writeFederated(w, u, created)
}

func writeFederated(w http.ResponseWriter, u *domain.User, created bool) {
	if created {
		writeJSON(w, http.StatusCreated, FederatedEnvelope{Message: "User registered", User: u})
		return
	}
	writeJSON(w, http.StatusOK, FederatedEnvelope{Message: "Login successful", User: u})
}

// federatedError collapses rejection to 400: the frontend treats any
// non-transport federated failure as "try again", so rejected tokens map to
// 400 rather than 401.
func federatedError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrTransport) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
