package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "learnjournal/internal/errors"
)

// Driver messages for unique violations, for dialects that do not translate.
var duplicateMarkers = []string{
	"UNIQUE constraint failed", // sqlite
	"Duplicate entry",          // mysql 1062
	"duplicate key value",      // postgres 23505
}

// translate maps GORM errors onto the domain taxonomy. Anything unknown is
// wrapped with op and left for the caller to treat as a storage failure.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicate(err):
		return apperrors.ErrDuplicateUser
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isDuplicate(err error) bool {
	msg := err.Error()
	for _, m := range duplicateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
