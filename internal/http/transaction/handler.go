package transaction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Checker re-evaluates a user's budget once new spending is stored.
type Checker interface {
	Recheck(ctx context.Context, email string, now time.Time) (bool, error)
}

type Handler struct {
	svc      *transaction.Service
	exporter *export.Service
	checker  Checker
	now      func() time.Time
}

func NewHandler(svc *transaction.Service, exporter *export.Service, checker Checker, now func() time.Time) *Handler {
	return &Handler{svc: svc, exporter: exporter, checker: checker, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/export", h.export)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

// createTransactionRequest takes the amount as a JSON number or string. A
// missing date means today.
type createTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Amount.IsPositive() {
		http.Error(w, transaction.ErrInvalidAmount.Error(), http.StatusUnprocessableEntity)
		return
	}

	category, err := transaction.ParseCategory(req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	date := budget.DateOf(h.now())
	if req.Date != "" {
		if date, err = time.Parse(time.DateOnly, req.Date); err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
	}

	email := identity.Email(r.Context())

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		UserEmail:   email,
		Amount:      req.Amount,
		Category:    category,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.recheck(r.Context(), email)

	render.JSON(w, http.StatusCreated, toResponse(tx))
}

// recheck never fails the request; the next check retries a missed notice.
func (h *Handler) recheck(ctx context.Context, email string) {
	if _, err := h.checker.Recheck(ctx, email, h.now()); err != nil {
		slog.Error("budget recheck failed", "user", email, "error", err)
	}
}

func (h *Handler) filter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()

	filter := transaction.ListFilter{
		UserEmail: identity.Email(r.Context()),
		Sort:      q.Get("sort"),
	}

	if s := q.Get("category"); s != "" {
		c, err := transaction.ParseCategory(s)
		if err != nil {
			return filter, err
		}

		filter.Category = &c
	}

	var err error

	if filter.StartDate, err = render.ParseDate(q.Get("start_date")); err != nil {
		return filter, fmt.Errorf("invalid start_date: %w", err)
	}

	if filter.EndDate, err = render.ParseDate(q.Get("end_date")); err != nil {
		return filter, fmt.Errorf("invalid end_date: %w", err)
	}

	if filter.Sort == "" {
		filter.Sort = "-transaction_date"
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter.Sort = ""

	// Buffered so a failed listing still gets a clean error response.
	var buf bytes.Buffer
	if _, err := h.exporter.Export(r.Context(), filter, &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// owned loads a transaction and hides other users' rows behind a 404.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*transaction.Transaction, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if tx.UserEmail != identity.Email(r.Context()) {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return nil, false
	}

	return tx, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.owned(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.owned(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), tx.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalidAmount), errors.Is(err, transaction.ErrInvalidCategory):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
