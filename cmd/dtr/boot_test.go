package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/cli"
	"github.com/smolrome/DailyTimeRecord/internal/config"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(hour int) time.Time {
	return time.Date(2025, 3, 10, hour, 0, 0, 0, time.Local)
}

func writeConfig(t *testing.T, backend string) (cfgFile, dataDir string) {
	t.Helper()
	dir := t.TempDir()
	dataDir = filepath.Join(dir, "data")
	cfgFile = filepath.Join(dir, "config.yml")
	body := "user: ana\nnotifications: false\nstorage:\n  backend: " + backend + "\n  dir: " + dataDir + "\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0o644))
	return cfgFile, dataDir
}

func TestBoot_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			cfgFile, dataDir := writeConfig(t, backend)
			ctx := context.Background()

			env, err := boot(ctx, config.Options{ConfigFile: cfgFile})
			require.NoError(t, err)
			assert.Equal(t, "ana", env.Tracker.User())
			require.NoError(t, env.Tracker.ClockIn(ctx, testTime(9), "Training"))
			require.NoError(t, env.Tracker.Logout(ctx))
			require.NoError(t, env.Close())

			assert.FileExists(t, filepath.Join(dataDir, "log", "dtr.log"))
			if backend == config.BackendFile {
				assert.FileExists(t, filepath.Join(repository.UserDir(dataDir, "ana"), repository.RecordsFileName))
			} else {
				assert.FileExists(t, filepath.Join(dataDir, "dtr.db"))
			}

			again, err := boot(ctx, config.Options{ConfigFile: cfgFile})
			require.NoError(t, err)
			defer again.Close()
			assert.Equal(t, domain.StateClockedIn, again.Tracker.State(), "records survive a restart")
		})
	}
}

func TestBoot_UserFlagWins(t *testing.T) {
	cfgFile, _ := writeConfig(t, config.BackendFile)

	env, err := boot(context.Background(), config.Options{ConfigFile: cfgFile, User: "bo"})
	require.NoError(t, err)
	defer env.Close()
	assert.Equal(t, "bo", env.Tracker.User())
	assert.Empty(t, env.Tracker.Records())
}

func TestBoot_UnknownBackend(t *testing.T) {
	cfgFile, _ := writeConfig(t, "bbolt")

	_, err := boot(context.Background(), config.Options{ConfigFile: cfgFile})
	require.Error(t, err)
}

func TestBoot_CorruptRecordsSurface(t *testing.T) {
	cfgFile, dataDir := writeConfig(t, config.BackendFile)
	userDir := repository.UserDir(dataDir, "ana")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, repository.RecordsFileName), []byte("{"), 0o644))

	_, err := boot(context.Background(), config.Options{ConfigFile: cfgFile})
	require.ErrorIs(t, err, domain.ErrPersistenceFormat)
}

func TestCommandsThroughBoot(t *testing.T) {
	cfgFile, _ := writeConfig(t, config.BackendSQLite)
	run := func(args ...string) string {
		t.Helper()
		app := &cli.App{Boot: boot, IsInteractive: func() bool { return false }}
		defer app.Close()
		root := cli.NewRootCmd(app)
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs(append([]string{"--config", cfgFile}, args...))
		require.NoError(t, root.Execute())
		return buf.String()
	}

	run("add", "--date", "2025-03-07", "--start", "09:00", "--end", "17:00", "--break", "30")
	out := run("records", "--kind", "break")
	assert.Contains(t, out, "Manual Break")
	assert.Contains(t, out, "13:00:00")
}
