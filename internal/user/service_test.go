package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/user"
)

func TestUser_OptionalFields(t *testing.T) {
	var u user.User

	assert.True(t, u.Saved().IsZero())
	assert.Zero(t, u.Streak())

	u.Email = "ana@example.com"
	assert.Equal(t, "ana@example.com", u.Name())

	u.TotalSaved = new(decimal.RequireFromString("300.25"))
	u.CurrentStreak = new(4)
	u.DisplayName = "Ana"

	assert.Equal(t, "300.25", u.Saved().String())
	assert.Equal(t, 4, u.Streak())
	assert.Equal(t, "Ana", u.Name())
}

func TestService_Ensure(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *user.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					EnsureUser(gomock.Any(), "ana@example.com").
					Return(&user.User{Email: "ana@example.com"}, nil)
			},
		},
		{
			name: "RepoError",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					EnsureUser(gomock.Any(), "ana@example.com").
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := user.NewService(repo).Ensure(context.Background(), "ana@example.com")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", got.Email)
		})
	}
}

func TestService_SetAccountabilityMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().SetAccountabilityMode(gomock.Any(), "ana@example.com", true).Return(nil),
		repo.EXPECT().GetUser(gomock.Any(), "ana@example.com").
			Return(&user.User{Email: "ana@example.com", AccountabilityMode: true}, nil),
	)

	got, err := user.NewService(repo).SetAccountabilityMode(context.Background(), "ana@example.com", true)
	require.NoError(t, err)
	assert.True(t, got.AccountabilityMode)
}

func TestService_SetAccountabilityMode_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().SetAccountabilityMode(gomock.Any(), "ghost@example.com", false).Return(user.ErrNotFound)

	_, err := user.NewService(repo).SetAccountabilityMode(context.Background(), "ghost@example.com", false)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
