package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
)

type Handler struct {
	svc *budget.Service
	now func() time.Time
}

func NewHandler(svc *budget.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
}

type budgetResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Period    budget.Period   `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		Amount:    b.Amount,
		Period:    b.Period,
		StartDate: render.Date(b.StartDate),
		EndDate:   render.Date(b.EndDate),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.ForUser(r.Context(), identity.Email(r.Context()))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	render.JSON(w, http.StatusOK, resp)
}

type createBudgetRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Period    budget.Period   `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

// create defaults a missing date range to the current week or month.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := render.ParseDate(req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}

	end, err := render.ParseDate(req.EndDate)
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	params := budget.CreateParams{
		UserEmail: identity.Email(r.Context()),
		Amount:    req.Amount,
		Period:    req.Period,
	}

	if start == nil || end == nil {
		current := budget.CurrentInterval(req.Period, h.now())
		params.StartDate, params.EndDate = current.Start, current.End
	} else {
		params.StartDate, params.EndDate = *start, *end
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(b))
}

type updateBudgetRequest struct {
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Period    *budget.Period   `json:"period,omitempty"`
	StartDate string           `json:"start_date,omitempty"`
	EndDate   string           `json:"end_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if existing.UserEmail != identity.Email(r.Context()) {
		http.Error(w, "budget not found", http.StatusNotFound)
		return
	}

	params := budget.UpdateParams{Amount: req.Amount, Period: req.Period}

	if params.StartDate, err = render.ParseDate(req.StartDate); err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}

	if params.EndDate, err = render.ParseDate(req.EndDate); err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(b))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, budget.ErrNotFound):
		http.Error(w, "budget not found", http.StatusNotFound)
	case errors.Is(err, budget.ErrInvalidAmount),
		errors.Is(err, budget.ErrInvalidPeriod),
		errors.Is(err, budget.ErrInvalidInterval):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
