package me

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type Handler struct {
	users *user.Service
}

func NewHandler(users *user.Service) *Handler {
	return &Handler{users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/accountability", h.setAccountability)
}

type meResponse struct {
	Email              string          `json:"email"`
	DisplayName        string          `json:"display_name"`
	TotalSaved         decimal.Decimal `json:"total_saved"`
	CurrentStreak      int             `json:"current_streak"`
	AccountabilityMode bool            `json:"accountability_mode"`
}

func toResponse(u *user.User) meResponse {
	return meResponse{
		Email:              u.Email,
		DisplayName:        u.Name(),
		TotalSaved:         u.Saved(),
		CurrentStreak:      u.Streak(),
		AccountabilityMode: u.AccountabilityMode,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), identity.Email(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

type accountabilityRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *Handler) setAccountability(w http.ResponseWriter, r *http.Request) {
	var req accountabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Enabled == nil {
		http.Error(w, "enabled is required", http.StatusBadRequest)
		return
	}

	u, err := h.users.SetAccountabilityMode(r.Context(), identity.Email(r.Context()), *req.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, user.ErrNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
