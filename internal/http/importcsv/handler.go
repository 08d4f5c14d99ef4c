package importcsv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const maxUploadSize = 10 << 20

// Checker re-evaluates a user's budget once new spending is stored.
type Checker interface {
	Recheck(ctx context.Context, email string, now time.Time) (bool, error)
}

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	matchSvc  *matching.Service
	checker   Checker
	now       func() time.Time
}

func NewHandler(
	importSvc *importer.Service,
	txSvc *transaction.Service,
	matchSvc *matching.Service,
	checker Checker,
	now func() time.Time,
) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		matchSvc:  matchSvc,
		checker:   checker,
		now:       now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID          uuid.UUID            `json:"id"`
	Amount      decimal.Decimal      `json:"amount"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
	CreatedAt   time.Time            `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Format       string                `json:"format,omitempty"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Amount      decimal.Decimal      `json:"amount"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

// importCSV stores an uploaded file. When some rows already exist nothing is
// stored and the client gets a 409 listing new and conflicting rows, so it can
// send back the rows it wants through /confirm.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	email := identity.Email(r.Context())

	parsed, err := h.importSvc.Import(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.matchSvc.Categorize(r.Context(), email, parsed.Rows); err != nil {
		slog.Warn("failed to categorize import", "user", email, "error", err)
	}

	result, err := h.txSvc.ImportBatch(r.Context(), email, parsed.Rows)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		render.JSON(w, http.StatusConflict, resp)

		return
	}

	if len(result.Imported) > 0 {
		h.recheck(r.Context(), email)
	}

	resp := toSuccessResponse(result.Imported)
	resp.Format = parsed.Profile

	slog.Info("imported transactions", "user", email, "format", parsed.Profile, "charset", parsed.Charset, "count", resp.Imported)
	render.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		date, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			http.Error(w, "invalid date "+p.Date, http.StatusBadRequest)
			return
		}

		params = append(params, transaction.CreateParams{
			Amount:      p.Amount,
			Category:    p.Category,
			Description: p.Description,
			Date:        date,
		})
	}

	email := identity.Email(r.Context())

	txs, err := h.txSvc.CreateBatch(r.Context(), email, params)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(txs) > 0 {
		h.recheck(r.Context(), email)
	}

	render.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func (h *Handler) recheck(ctx context.Context, email string) {
	if _, err := h.checker.Recheck(ctx, email, h.now()); err != nil {
		slog.Error("budget recheck failed", "user", email, "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, transaction.ErrInvalidAmount) || errors.Is(err, transaction.ErrInvalidCategory) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        render.Date(tx.Date),
		CreatedAt:   tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        render.Date(p.Date),
	}
}
