package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/accountability"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/friend"
	tallyhttp "github.com/MrJamesThe3rd/tally/internal/http"
	budgethttp "github.com/MrJamesThe3rd/tally/internal/http/budget"
	friendhttp "github.com/MrJamesThe3rd/tally/internal/http/friend"
	"github.com/MrJamesThe3rd/tally/internal/http/identity"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	leaderboardhttp "github.com/MrJamesThe3rd/tally/internal/http/leaderboard"
	matchinghttp "github.com/MrJamesThe3rd/tally/internal/http/matching"
	"github.com/MrJamesThe3rd/tally/internal/http/me"
	overviewhttp "github.com/MrJamesThe3rd/tally/internal/http/overview"
	txhttp "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/leaderboard"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/overview"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/user"
)

const caller = "ana@example.com"

var now = time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

type fixture struct {
	users   *user.MockRepository
	budgets *budget.MockRepository
	txs     *transaction.MockRepository
	notices *accountability.MockRepository
	events  []accountability.Event
	router  http.Handler
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		users:   user.NewMockRepository(ctrl),
		budgets: budget.NewMockRepository(ctrl),
		txs:     transaction.NewMockRepository(ctrl),
		notices: accountability.NewMockRepository(ctrl),
	}

	f.users.EXPECT().EnsureUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, email string) (*user.User, error) {
			return &user.User{Email: email}, nil
		}).AnyTimes()

	clock := func() time.Time { return now }

	notifier := accountability.NotifierFunc(func(_ context.Context, e accountability.Event) error {
		f.events = append(f.events, e)
		return nil
	})

	var (
		userSvc     = user.NewService(f.users)
		budgetSvc   = budget.NewService(f.budgets)
		txSvc       = transaction.NewService(f.txs)
		friendSvc   = friend.NewService(friend.NewMockRepository(ctrl), userSvc)
		matchSvc    = matching.NewService(matching.NewMockRepository(ctrl))
		tracker     = accountability.NewTracker(f.notices, notifier)
		overviewSvc = overview.NewService(userSvc, budgetSvc, txSvc, tracker, nil)
		boardSvc    = leaderboard.NewService(friendSvc, userSvc, budgetSvc, txSvc, 2)
	)

	f.router = tallyhttp.New(tallyhttp.Handlers{
		Overview:     overviewhttp.NewHandler(overviewSvc, clock),
		Budgets:      budgethttp.NewHandler(budgetSvc, clock),
		Transactions: txhttp.NewHandler(txSvc, export.NewService(txSvc), overviewSvc, clock),
		Import:       importcsv.NewHandler(importer.NewService(), txSvc, matchSvc, overviewSvc, clock),
		Rules:        matchinghttp.NewHandler(matchSvc),
		Leaderboard:  leaderboardhttp.NewHandler(boardSvc, clock),
		Friends:      friendhttp.NewHandler(friendSvc, userSvc),
		Me:           me.NewHandler(userSvc),
	}, userSvc, tallyhttp.Options{AllowedOrigins: []string{"*"}})

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(identity.Header, caller)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func TestRouter_RequiresIdentity(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/budget", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_BudgetOverviewExceeded(t *testing.T) {
	f := newFixture(t)

	budgetID := uuid.New()

	f.users.EXPECT().GetUser(gomock.Any(), caller).
		Return(&user.User{Email: caller, AccountabilityMode: true}, nil)
	f.budgets.EXPECT().ListBudgets(gomock.Any(), budget.ListFilter{UserEmail: caller, Sort: "-created_at"}).
		Return([]*budget.Budget{{
			ID:        budgetID,
			UserEmail: caller,
			Amount:    decimal.NewFromInt(500),
			Period:    budget.PeriodMonthly,
			StartDate: day(1),
			EndDate:   day(31),
		}}, nil)
	f.txs.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{UserEmail: caller, Sort: "-transaction_date"}).
		Return([]*transaction.Transaction{
			{ID: uuid.New(), UserEmail: caller, Amount: decimal.NewFromInt(450), Category: transaction.CategoryShopping, Description: "Jacket", Date: day(10)},
			{ID: uuid.New(), UserEmail: caller, Amount: decimal.NewFromInt(120), Category: transaction.CategoryFood, Description: "Groceries", Date: day(5)},
		}, nil)
	f.notices.EXPECT().MarkNotified(gomock.Any(), caller, budgetID).Return(true, nil)

	rec := f.do(http.MethodGet, "/api/v1/budget", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Spent      string  `json:"spent"`
		Percentage float64 `json:"percentage"`
		Level      string  `json:"level"`
		Notified   bool    `json:"notified"`
		Banner     *struct {
			Title string `json:"title"`
		} `json:"banner"`
		Insights []struct {
			Message    string `json:"message"`
			OverBudget bool   `json:"over_budget"`
		} `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "570", resp.Spent)
	assert.InDelta(t, 114.0, resp.Percentage, 1e-9)
	assert.Equal(t, "exceeded", resp.Level)
	assert.True(t, resp.Notified)
	require.NotNil(t, resp.Banner)
	require.NotEmpty(t, resp.Insights)
	assert.True(t, resp.Insights[0].OverBudget)
	assert.Contains(t, resp.Insights[0].Message, "$70.00")

	require.Len(t, f.events, 1)
	assert.Equal(t, budgetID, f.events[0].BudgetID)
}

func TestRouter_CreateTransaction(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setup      func(f *fixture)
		wantStatus int
	}

	testCases := []testCase{
		{
			name: "defaults date to today",
			body: `{"amount": 12.5, "category": "food", "description": "Lunch"}`,
			setup: func(f *fixture) {
				f.txs.EXPECT().CreateTransaction(gomock.Any(), gomock.Cond(func(tx *transaction.Transaction) bool {
					return tx.UserEmail == caller &&
						tx.Category == transaction.CategoryFood &&
						tx.Amount.Equal(decimal.RequireFromString("12.5")) &&
						tx.Date.Equal(day(17))
				})).Return(nil)
				f.budgets.EXPECT().ListBudgets(gomock.Any(), budget.ListFilter{UserEmail: caller, Sort: "-created_at"}).
					Return(nil, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "keeps string amounts exact",
			body: `{"amount": "12345678901234.56", "category": "other", "date": "2026-10-03"}`,
			setup: func(f *fixture) {
				f.txs.EXPECT().CreateTransaction(gomock.Any(), gomock.Cond(func(tx *transaction.Transaction) bool {
					return tx.Amount.String() == "12345678901234.56" && tx.Date.Equal(day(3))
				})).Return(nil)
				f.budgets.EXPECT().ListBudgets(gomock.Any(), budget.ListFilter{UserEmail: caller, Sort: "-created_at"}).
					Return(nil, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero amount",
			body:       `{"amount": 0, "category": "food"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "non numeric amount",
			body:       `{"amount": "lots", "category": "food"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative amount",
			body:       `{"amount": -5, "description": "Refund"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown category",
			body:       `{"amount": 5, "category": "pets"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "bad date",
			body:       `{"amount": 5, "date": "17/10/2026"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.setup != nil {
				tc.setup(f)
			}

			rec := f.do(http.MethodPost, "/api/v1/transactions", tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_CreateTransactionCrossesBudget(t *testing.T) {
	f := newFixture(t)

	budgetID := uuid.New()
	jacket := &transaction.Transaction{
		ID: uuid.New(), UserEmail: caller, Amount: decimal.NewFromInt(450),
		Category: transaction.CategoryShopping, Description: "Jacket", Date: day(10),
	}

	var stored *transaction.Transaction

	f.txs.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			stored = tx
			return nil
		})
	f.budgets.EXPECT().ListBudgets(gomock.Any(), budget.ListFilter{UserEmail: caller, Sort: "-created_at"}).
		Return([]*budget.Budget{{
			ID:        budgetID,
			UserEmail: caller,
			Amount:    decimal.NewFromInt(500),
			Period:    budget.PeriodMonthly,
			StartDate: day(1),
			EndDate:   day(31),
		}}, nil)
	f.txs.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{UserEmail: caller, Sort: "-transaction_date"}).
		DoAndReturn(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{stored, jacket}, nil
		})
	f.users.EXPECT().GetUser(gomock.Any(), caller).
		Return(&user.User{Email: caller, AccountabilityMode: true}, nil)
	f.notices.EXPECT().MarkNotified(gomock.Any(), caller, budgetID).Return(true, nil).Times(1)

	rec := f.do(http.MethodPost, "/api/v1/transactions", `{"amount": "120", "category": "food", "description": "Groceries"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, f.events, 1)
	assert.Equal(t, budgetID, f.events[0].BudgetID)
	assert.True(t, f.events[0].Spent.Equal(decimal.NewFromInt(570)))
}

func TestRouter_ConfirmImportCrossesBudget(t *testing.T) {
	f := newFixture(t)

	budgetID := uuid.New()
	itx := transaction.NewMockImportTx(gomock.NewController(t))

	var stored []*transaction.Transaction

	f.txs.EXPECT().BeginImport(gomock.Any(), caller, day(2), day(9)).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			stored = txs
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	f.budgets.EXPECT().ListBudgets(gomock.Any(), gomock.Any()).
		Return([]*budget.Budget{{
			ID:        budgetID,
			UserEmail: caller,
			Amount:    decimal.NewFromInt(100),
			Period:    budget.PeriodMonthly,
			StartDate: day(1),
			EndDate:   day(31),
		}}, nil)
	f.txs.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
			return stored, nil
		})
	f.users.EXPECT().GetUser(gomock.Any(), caller).
		Return(&user.User{Email: caller, AccountabilityMode: true}, nil)
	f.notices.EXPECT().MarkNotified(gomock.Any(), caller, budgetID).Return(true, nil)

	body := `{"params": [
		{"amount": "60", "category": "Food", "description": "Market", "date": "2026-10-02"},
		{"amount": "55", "category": "Travel", "description": "Train", "date": "2026-10-09"}
	]}`

	rec := f.do(http.MethodPost, "/api/v1/import/confirm", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, f.events, 1)
	assert.True(t, f.events[0].Overage.Equal(decimal.NewFromInt(15)))
}

func TestRouter_OverviewRejectsNegativeStoredAmount(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().GetUser(gomock.Any(), caller).Return(&user.User{Email: caller}, nil)
	f.budgets.EXPECT().ListBudgets(gomock.Any(), gomock.Any()).
		Return([]*budget.Budget{{
			ID:        uuid.New(),
			UserEmail: caller,
			Amount:    decimal.NewFromInt(500),
			Period:    budget.PeriodMonthly,
			StartDate: day(1),
			EndDate:   day(31),
		}}, nil)
	f.txs.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{
			{ID: uuid.New(), UserEmail: caller, Amount: decimal.NewFromInt(-40), Category: transaction.CategoryFood, Date: day(4)},
		}, nil)

	rec := f.do(http.MethodGet, "/api/v1/budget", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestRouter_ExportFailureIsNotCSV(t *testing.T) {
	f := newFixture(t)

	f.txs.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	rec := f.do(http.MethodGet, "/api/v1/transactions/export", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestRouter_DeleteOtherUsersTransaction(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	f.txs.EXPECT().GetTransaction(gomock.Any(), id).
		Return(&transaction.Transaction{ID: id, UserEmail: "bo@example.com"}, nil)

	rec := f.do(http.MethodDelete, "/api/v1/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CreateBudgetDefaultsToCurrentPeriod(t *testing.T) {
	f := newFixture(t)

	f.budgets.EXPECT().CreateBudget(gomock.Any(), gomock.Cond(func(b *budget.Budget) bool {
		return b.UserEmail == caller && b.StartDate.Equal(day(12)) && b.EndDate.Equal(day(18))
	})).Return(nil)

	rec := f.do(http.MethodPost, "/api/v1/budgets", `{"amount": "200", "period": "weekly"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"start_date":"2026-10-12"`)
}

func TestRouter_SetAccountability(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().SetAccountabilityMode(gomock.Any(), caller, true).Return(nil)
	f.users.EXPECT().GetUser(gomock.Any(), caller).Return(&user.User{Email: caller, AccountabilityMode: true}, nil)

	rec := f.do(http.MethodPut, "/api/v1/me/accountability", `{"enabled": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"accountability_mode":true`)

	rec = f.do(http.MethodPut, "/api/v1/me/accountability", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
