package friend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/friend"
	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type Handler struct {
	svc   *friend.Service
	users *user.Service
}

func NewHandler(svc *friend.Service, users *user.Service) *Handler {
	return &Handler{svc: svc, users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggestions", h.suggestions)
	r.Get("/search", h.search)
	r.Get("/requests", h.incoming)
	r.Post("/requests", h.request)
	r.Put("/requests/{id}", h.respond)
}

type userResponse struct {
	Email              string          `json:"email"`
	DisplayName        string          `json:"display_name"`
	TotalSaved         decimal.Decimal `json:"total_saved"`
	CurrentStreak      int             `json:"current_streak"`
	AccountabilityMode bool            `json:"accountability_mode"`
}

func toUserList(users []*user.User) []userResponse {
	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse{
			Email:              u.Email,
			DisplayName:        u.Name(),
			TotalSaved:         u.Saved(),
			CurrentStreak:      u.Streak(),
			AccountabilityMode: u.AccountabilityMode,
		}
	}

	return resp
}

type requestResponse struct {
	ID             uuid.UUID     `json:"id"`
	RequesterEmail string        `json:"requester_email"`
	RecipientEmail string        `json:"recipient_email"`
	Status         friend.Status `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

func toRequestResponse(f *friend.Friend) requestResponse {
	return requestResponse{
		ID:             f.ID,
		RequesterEmail: f.RequesterEmail,
		RecipientEmail: f.RecipientEmail,
		Status:         f.Status,
		CreatedAt:      f.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Friends(r.Context(), identity.Email(r.Context()))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, http.StatusOK, toUserList(users))
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Suggestions(r.Context(), identity.Email(r.Context()))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, http.StatusOK, toUserList(users))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Search(r.Context(), identity.Email(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toUserList(users))
}

func (h *Handler) incoming(w http.ResponseWriter, r *http.Request) {
	requests, err := h.svc.Incoming(r.Context(), identity.Email(r.Context()))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]requestResponse, len(requests))
	for i, f := range requests {
		resp[i] = toRequestResponse(f)
	}

	render.JSON(w, http.StatusOK, resp)
}

type friendRequest struct {
	Email string `json:"email"`
}

func (h *Handler) request(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recipient := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.users.Get(r.Context(), recipient); err != nil {
		writeError(w, err)
		return
	}

	f, err := h.svc.Request(r.Context(), identity.Email(r.Context()), recipient)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toRequestResponse(f))
}

type respondRequest struct {
	Status friend.Status `json:"status"`
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := h.svc.Respond(r.Context(), id, identity.Email(r.Context()), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toRequestResponse(f))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, friend.ErrEmptyQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, friend.ErrNotFound):
		http.Error(w, "friend request not found", http.StatusNotFound)
	case errors.Is(err, friend.ErrNotRecipient):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, friend.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, friend.ErrSelfRequest), errors.Is(err, friend.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
