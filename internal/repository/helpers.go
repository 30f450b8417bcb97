package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/codec"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// parseNullableTime reads an optional naive timestamp column.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := codec.ParseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return codec.FormatTimestamp(*t)
}

func ioErr(op, user string, err error) error {
	return fmt.Errorf("%s for %q: %w: %w", op, user, domain.ErrPersistenceIO, err)
}

func formatErr(op, user string, err error) error {
	return fmt.Errorf("%s for %q: %w: %w", op, user, domain.ErrPersistenceFormat, err)
}

func validateUser(user string) error {
	return domain.ValidateUserName(user)
}
