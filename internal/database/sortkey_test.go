package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/database"
)

func TestOrderBy(t *testing.T) {
	columns := map[string]string{
		"created_at":       "b.created_at",
		"transaction_date": "t.transaction_date",
	}

	type testCase struct {
		name    string
		key     string
		want    string
		wantErr error
	}

	tests := []testCase{
		{name: "Empty", key: "", want: " ORDER BY id"},
		{name: "Ascending", key: "created_at", want: " ORDER BY b.created_at ASC, id"},
		{name: "Descending", key: "-transaction_date", want: " ORDER BY t.transaction_date DESC, id"},
		{name: "Unknown", key: "-amount; DROP TABLE budgets", wantErr: database.ErrUnknownSortField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := database.OrderBy(tt.key, columns, "id")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
