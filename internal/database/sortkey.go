package database

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSortField = errors.New("unknown sort field")

// OrderBy turns a sort key of the form "field" or "-field" into an ORDER BY
// clause. columns maps the public field names to SQL expressions; anything
// else is rejected so callers can pass user input straight through. tiebreak
// is always appended so results stay deterministic.
func OrderBy(key string, columns map[string]string, tiebreak string) (string, error) {
	if key == "" {
		return " ORDER BY " + tiebreak, nil
	}

	dir := "ASC"
	field := key

	if rest, ok := strings.CutPrefix(key, "-"); ok {
		dir = "DESC"
		field = rest
	}

	col, ok := columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}

	return fmt.Sprintf(" ORDER BY %s %s, %s", col, dir, tiebreak), nil
}
