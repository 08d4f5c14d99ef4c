package leaderboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/leaderboard"
)

type Handler struct {
	svc *leaderboard.Service
	now func() time.Time
}

func NewHandler(svc *leaderboard.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type entryResponse struct {
	Rank               int             `json:"rank"`
	Email              string          `json:"email"`
	DisplayName        string          `json:"display_name"`
	TotalSaved         decimal.Decimal `json:"total_saved"`
	SuccessRate        float64         `json:"success_rate"`
	Streak             int             `json:"streak"`
	HasBudget          bool            `json:"has_budget"`
	AccountabilityMode bool            `json:"accountability_mode"`
}

type boardResponse struct {
	CallerRank int             `json:"caller_rank"`
	Message    string          `json:"message"`
	Entries    []entryResponse `json:"entries"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Leaderboard(r.Context(), identity.Email(r.Context()), h.now())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := boardResponse{
		CallerRank: board.CallerRank,
		Message:    leaderboard.RankMessage(board.CallerRank),
		Entries:    make([]entryResponse, len(board.Entries)),
	}

	for i, e := range board.Entries {
		resp.Entries[i] = entryResponse{
			Rank:               e.Rank,
			Email:              e.Email,
			DisplayName:        e.DisplayName,
			TotalSaved:         e.TotalSaved,
			SuccessRate:        e.SuccessRate,
			Streak:             e.Streak,
			HasBudget:          e.HasBudget,
			AccountabilityMode: e.AccountabilityMode,
		}
	}

	render.JSON(w, http.StatusOK, resp)
}
