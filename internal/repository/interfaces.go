package repository

import (
	"context"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// RecordRepo loads and saves one user's record set together with the
// user's notes. Save replaces the whole set atomically.
//
// A user with nothing saved yet loads as an empty store. Failures wrap
// domain.ErrPersistenceIO or domain.ErrPersistenceFormat.
type RecordRepo interface {
	Load(ctx context.Context, user string) (*domain.Store, string, error)
	Save(ctx context.Context, user string, s *domain.Store, notes string) error
}

// Compile-time checks.
var (
	_ RecordRepo = (*SQLiteRecordRepo)(nil)
	_ RecordRepo = (*FileRecordRepo)(nil)
)
