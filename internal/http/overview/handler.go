package overview

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/alert"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/overview"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

type Handler struct {
	svc *overview.Service
	now func() time.Time
}

func NewHandler(svc *overview.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type budgetResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Period    budget.Period   `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

type categoryResponse struct {
	Category transaction.Category `json:"category"`
	Amount   decimal.Decimal      `json:"amount"`
	Share    float64              `json:"share"`
}

type insightResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Date          string    `json:"date"`
	Message       string    `json:"message"`
	OverBudget    bool      `json:"over_budget"`
}

type bannerResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type statsResponse struct {
	ThisWeek     decimal.Decimal `json:"this_week"`
	ThisMonth    decimal.Decimal `json:"this_month"`
	DailyAverage decimal.Decimal `json:"daily_average"`
}

type overviewResponse struct {
	Email              string             `json:"email"`
	DisplayName        string             `json:"display_name"`
	AccountabilityMode bool               `json:"accountability_mode"`
	Budget             *budgetResponse    `json:"budget"`
	Spent              decimal.Decimal    `json:"spent"`
	Percentage         float64            `json:"percentage"`
	TransactionCount   int                `json:"transaction_count"`
	Remaining          *decimal.Decimal   `json:"remaining,omitempty"`
	Level              alert.Level        `json:"level,omitempty"`
	Banner             *bannerResponse    `json:"banner,omitempty"`
	Breakdown          []categoryResponse `json:"breakdown"`
	Stats              statsResponse      `json:"stats"`
	Insights           []insightResponse  `json:"insights"`
	Tip                string             `json:"tip,omitempty"`
	Notified           bool               `json:"notified"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Build(r.Context(), identity.Email(r.Context()), h.now())
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, budget.ErrInvalidInterval), errors.Is(err, transaction.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	render.JSON(w, http.StatusOK, toResponse(view))
}

func toResponse(v *overview.View) overviewResponse {
	resp := overviewResponse{
		Email:              v.User.Email,
		DisplayName:        v.User.Name(),
		AccountabilityMode: v.User.AccountabilityMode,
		Spent:              v.Summary.Spent,
		Percentage:         v.Summary.Percentage,
		TransactionCount:   v.Summary.Count,
		Remaining:          v.Remaining,
		Level:              v.Level,
		Breakdown:          make([]categoryResponse, len(v.Summary.Breakdown)),
		Stats: statsResponse{
			ThisWeek:     v.Stats.ThisWeek,
			ThisMonth:    v.Stats.ThisMonth,
			DailyAverage: v.Stats.DailyAverage,
		},
		Insights: make([]insightResponse, len(v.Insights)),
		Tip:      v.Tip,
		Notified: v.Notified,
	}

	if v.Budget != nil {
		resp.Budget = &budgetResponse{
			ID:        v.Budget.ID,
			Amount:    v.Budget.Amount,
			Period:    v.Budget.Period,
			StartDate: render.Date(v.Budget.StartDate),
			EndDate:   render.Date(v.Budget.EndDate),
		}
	}

	if !v.Banner.IsZero() {
		resp.Banner = &bannerResponse{Title: v.Banner.Title, Message: v.Banner.Message}
	}

	for i, c := range v.Summary.Breakdown {
		resp.Breakdown[i] = categoryResponse{Category: c.Category, Amount: c.Amount, Share: c.Share}
	}

	for i, in := range v.Insights {
		resp.Insights[i] = insightResponse{
			TransactionID: in.TransactionID,
			Date:          render.Date(in.Date),
			Message:       in.Message,
			OverBudget:    in.OverBudget,
		}
	}

	return resp
}
