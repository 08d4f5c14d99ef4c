package database_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upMigrations returns every up script in the order migrate applies them.
func upMigrations(t *testing.T) []string {
	t.Helper()

	src, err := iofs.New(os.DirFS("migrations"), ".")
	require.NoError(t, err)

	t.Cleanup(func() { _ = src.Close() })

	var scripts []string

	version, err := src.First()
	require.NoError(t, err)

	for {
		r, _, err := src.ReadUp(version)
		require.NoError(t, err)

		body, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())

		scripts = append(scripts, string(body))

		version, err = src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return scripts
		}

		require.NoError(t, err)
	}
}

func TestMigrations_RejectedPairCanRequestAgain(t *testing.T) {
	var last string

	for _, script := range upMigrations(t) {
		if strings.Contains(script, "friends_pair_idx") {
			last = script
		}
	}

	require.NotEmpty(t, last)

	create := last[strings.LastIndex(last, "CREATE UNIQUE INDEX"):]
	assert.Contains(t, create, "WHERE status <> 'rejected'")
}
