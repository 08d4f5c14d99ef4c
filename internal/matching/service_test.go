package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const email = "ana@example.com"

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name     string
		pattern  string
		category transaction.Category
		setup    func(repo *matching.MockRepository)
		wantErr  error
	}

	testCases := []testCase{
		{
			name:     "stores trimmed pattern",
			pattern:  "  netflix ",
			category: transaction.CategorySubscriptions,
			setup: func(repo *matching.MockRepository) {
				repo.EXPECT().CreateRule(gomock.Any(), email, "netflix", transaction.CategorySubscriptions).Return(nil)
			},
		},
		{
			name:     "empty pattern",
			pattern:  "   ",
			category: transaction.CategoryFood,
			wantErr:  matching.ErrEmptyPattern,
		},
		{
			name:     "unknown category",
			pattern:  "uber",
			category: transaction.Category("Cars"),
			wantErr:  transaction.ErrInvalidCategory,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tc.setup != nil {
				tc.setup(repo)
			}

			err := matching.NewService(repo).Learn(context.Background(), email, tc.pattern, tc.category)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Categorize(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindCategory(gomock.Any(), email, "UBER *TRIP").Return(transaction.CategoryTravel, true, nil)
	repo.EXPECT().FindCategory(gomock.Any(), email, "corner shop").Return(transaction.Category(""), false, nil)

	params := []transaction.CreateParams{
		{Amount: decimal.NewFromInt(12), Category: transaction.CategoryOther, Description: "UBER *TRIP"},
		{Amount: decimal.NewFromInt(5), Category: transaction.CategoryFood, Description: "Bakery"},
		{Amount: decimal.NewFromInt(3), Description: "corner shop"},
	}

	require.NoError(t, matching.NewService(repo).Categorize(context.Background(), email, params))

	assert.Equal(t, transaction.CategoryTravel, params[0].Category)
	assert.Equal(t, transaction.CategoryFood, params[1].Category)
	assert.Equal(t, transaction.Category(""), params[2].Category)
}

func TestService_CategorizeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindCategory(gomock.Any(), email, "x").Return(transaction.Category(""), false, errors.New("db down"))

	err := matching.NewService(repo).Categorize(context.Background(), email, []transaction.CreateParams{{Description: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finding category rule")
}
