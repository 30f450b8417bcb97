package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smolrome/DailyTimeRecord/internal/codec"
	"github.com/smolrome/DailyTimeRecord/internal/db"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// SQLiteRecordRepo implements RecordRepo on the records and notes tables.
// Each record is one row; position is its index within its kind.
type SQLiteRecordRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteRecordRepo creates a SQLiteRecordRepo whose saves run in their
// own transaction.
func NewSQLiteRecordRepo(database *sql.DB) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// WithUnitOfWork returns a copy whose saves go through uow.
func (r *SQLiteRecordRepo) WithUnitOfWork(uow db.UnitOfWork) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: r.db, uow: uow}
}

func (r *SQLiteRecordRepo) Load(ctx context.Context, user string) (*domain.Store, string, error) {
	if err := validateUser(user); err != nil {
		return nil, "", err
	}

	query := `SELECT kind, start_at, end_at, label FROM records
		WHERE user_name = ? ORDER BY kind DESC, position`
	rows, err := r.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, "", ioErr("loading records", user, err)
	}
	defer rows.Close()

	var work, breaks []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, "", formatErr("scanning record", user, err)
		}
		if rec.Kind == domain.KindBreak {
			breaks = append(breaks, rec)
		} else {
			work = append(work, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, "", ioErr("iterating records", user, err)
	}

	s, err := domain.NewStoreFrom(work, breaks)
	if err != nil {
		return nil, "", formatErr("validating records", user, err)
	}

	notes, err := r.loadNotes(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return s, notes, nil
}

func (r *SQLiteRecordRepo) loadNotes(ctx context.Context, user string) (string, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM notes WHERE user_name = ?`, user).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", ioErr("loading notes", user, err)
	}
	return body, nil
}

// Save replaces every row of user in one transaction.
func (r *SQLiteRecordRepo) Save(ctx context.Context, user string, s *domain.Store, notes string) error {
	if err := validateUser(user); err != nil {
		return err
	}

	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE user_name = ?`, user); err != nil {
			return fmt.Errorf("clearing records: %w", err)
		}
		for _, kind := range []domain.Kind{domain.KindWork, domain.KindBreak} {
			list := s.Works()
			if kind == domain.KindBreak {
				list = s.Breaks()
			}
			for pos, rec := range list {
				if err := insertRecord(ctx, tx, user, pos, rec); err != nil {
					return err
				}
			}
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO notes (user_name, body, saved_at) VALUES (?, ?, ?)
			ON CONFLICT(user_name) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at`,
			user, notes, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("upserting notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return ioErr("saving records", user, err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx db.DBTX, user string, pos int, rec domain.Record) error {
	query := `INSERT INTO records (id, user_name, kind, position, start_at, end_at, label)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		uuid.NewString(),
		user,
		string(rec.Kind),
		pos,
		codec.FormatTimestamp(rec.Start),
		nullableTimeToString(rec.End),
		rec.Label,
	)
	if err != nil {
		return fmt.Errorf("inserting %s #%d: %w", rec.Kind, pos, err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (domain.Record, error) {
	var (
		kind, start, label string
		end                sql.NullString
	)
	if err := rows.Scan(&kind, &start, &end, &label); err != nil {
		return domain.Record{}, err
	}
	k, err := domain.ParseKind(kind)
	if err != nil {
		return domain.Record{}, err
	}
	st, err := codec.ParseTimestamp(start)
	if err != nil {
		return domain.Record{}, fmt.Errorf("start_at: %w", err)
	}
	en, err := parseNullableTime(end)
	if err != nil {
		return domain.Record{}, fmt.Errorf("end_at: %w", err)
	}
	return domain.NewRecord(k, st, en, label), nil
}
