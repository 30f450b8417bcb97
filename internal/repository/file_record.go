package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smolrome/DailyTimeRecord/internal/codec"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// RecordsFileName is the per-user document name.
const RecordsFileName = "records.json"

// FileRecordRepo keeps one records.json document per user under
// <dir>/users/<user>/.
type FileRecordRepo struct {
	dir    string
	logger *slog.Logger
}

func NewFileRecordRepo(dir string) *FileRecordRepo {
	return &FileRecordRepo{dir: dir, logger: slog.New(slog.DiscardHandler)}
}

// WithLogger returns a copy that reports dropped rows to logger.
func (r *FileRecordRepo) WithLogger(logger *slog.Logger) *FileRecordRepo {
	return &FileRecordRepo{dir: r.dir, logger: logger}
}

// Path returns the document path for user.
func (r *FileRecordRepo) Path(user string) string {
	return filepath.Join(UserDir(r.dir, user), RecordsFileName)
}

// UserDir is the per-user directory under a data directory.
func UserDir(dataDir, user string) string {
	return filepath.Join(dataDir, "users", user)
}

func (r *FileRecordRepo) Load(ctx context.Context, user string) (*domain.Store, string, error) {
	if err := validateUser(user); err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(r.Path(user))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewStore(), "", nil
	}
	if err != nil {
		return nil, "", ioErr("reading records", user, err)
	}

	s, notes, dropped, err := codec.DecodeReport(data)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", r.Path(user), err)
	}
	for _, row := range dropped {
		r.logger.WarnContext(ctx, "dropped record without start",
			"user", user, "path", r.Path(user), "row", row)
	}
	return s, notes, nil
}

// Save writes the document to a temporary file and renames it into place,
// so a failed write never truncates the previous document.
func (r *FileRecordRepo) Save(ctx context.Context, user string, s *domain.Store, notes string) error {
	if err := validateUser(user); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := codec.Encode(s, notes)
	if err != nil {
		return formatErr("encoding records", user, err)
	}

	dir := UserDir(r.dir, user)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioErr("creating user directory", user, err)
	}
	tmp, err := os.CreateTemp(dir, RecordsFileName+".*.tmp")
	if err != nil {
		return ioErr("creating temp file", user, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return ioErr("writing records", user, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ioErr("syncing records", user, err)
	}
	if err := tmp.Close(); err != nil {
		return ioErr("closing records", user, err)
	}
	if err := os.Rename(tmp.Name(), r.Path(user)); err != nil {
		return ioErr("replacing records", user, err)
	}
	return nil
}
