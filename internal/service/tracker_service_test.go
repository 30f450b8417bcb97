package service

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/repository"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
	"github.com/smolrome/DailyTimeRecord/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T, repo repository.RecordRepo, opts ...Option) (TrackerService, *testutil.Clock) {
	t.Helper()
	clk := testutil.NewClock(testutil.At(8, 0))
	svc := NewTrackerService(repo, tally.DefaultConfig(), append([]Option{WithClock(clk.Now)}, opts...)...)
	require.NoError(t, svc.Login(context.Background(), "ana"))
	return svc, clk
}

func TestTracker_ClockDay(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, clk := newTracker(t, repo)
	ctx := context.Background()

	states := []domain.State{svc.State()}
	step := func(at time.Time, fn func() error) {
		t.Helper()
		clk.Set(at)
		require.NoError(t, fn())
		states = append(states, svc.State())
	}
	step(testutil.At(9, 0), func() error { return svc.ClockIn(ctx, time.Time{}, "") })
	step(testutil.At(12, 0), func() error { return svc.BreakStart(ctx, time.Time{}, "") })
	step(testutil.At(12, 20), func() error { return svc.BreakEnd(ctx, time.Time{}) })
	step(testutil.At(17, 0), func() error { return svc.ClockOut(ctx, time.Time{}) })

	assert.Equal(t, []domain.State{
		domain.StateClockedOut, domain.StateClockedIn, domain.StateOnBreak,
		domain.StateClockedIn, domain.StateClockedOut,
	}, states)

	sum := svc.Summary(testutil.At(17, 0))
	assert.Equal(t, 7*time.Hour+40*time.Minute, sum.NetWorked)
	assert.Equal(t, 4, repo.Saves, "every command flushes")

	saved := repo.Saved("ana")
	require.NotNil(t, saved)
	assert.Len(t, saved.Records(), 2)
}

func TestTracker_IllegalTransitionsDoNotSave(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, _ := newTracker(t, repo)
	ctx := context.Background()

	require.ErrorIs(t, svc.BreakStart(ctx, time.Time{}, ""), domain.ErrNoActiveWorkSession)
	require.NoError(t, svc.ClockIn(ctx, testutil.At(9, 0), ""))
	require.ErrorIs(t, svc.ClockIn(ctx, testutil.At(9, 5), ""), domain.ErrIllegalTransition)
	require.NoError(t, svc.BreakStart(ctx, testutil.At(12, 0), ""))
	require.ErrorIs(t, svc.ClockOut(ctx, testutil.At(12, 5)), domain.ErrBreakInProgress)

	assert.Equal(t, 2, repo.Saves)
	assert.Equal(t, domain.StateOnBreak, svc.State())
}

func TestTracker_SaveFailureRollsBack(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, _ := newTracker(t, repo)
	ctx := context.Background()
	require.NoError(t, svc.ClockIn(ctx, testutil.At(9, 0), ""))

	repo.SaveErr = domain.ErrPersistenceIO
	err := svc.ClockOut(ctx, testutil.At(17, 0))
	require.ErrorIs(t, err, domain.ErrPersistenceIO)
	assert.Equal(t, domain.StateClockedIn, svc.State(), "memory must not claim the unsaved clock-out")

	err = svc.SetNotes(ctx, "lost")
	require.ErrorIs(t, err, domain.ErrPersistenceIO)
	assert.Empty(t, svc.Notes())

	repo.SaveErr = nil
	require.NoError(t, svc.ClockOut(ctx, testutil.At(17, 0)))
	assert.Equal(t, domain.StateClockedOut, svc.State())
}

func TestTracker_SQLiteSaveFailureRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRecordRepo(database)
	ctx := context.Background()
	svc, _ := newTracker(t, repo)
	require.NoError(t, svc.ClockIn(ctx, testutil.At(9, 0), "Project A"))

	// Exec #1 clears the user's rows, #2 re-inserts the work record.
	failing := repo.WithUnitOfWork(&testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errors.New("injected insert failure")})
	svc2, _ := newTracker(t, failing)
	err := svc2.ClockOut(ctx, testutil.At(17, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")
	assert.Equal(t, domain.StateClockedIn, svc2.State())

	reloaded, _ := newTracker(t, repo)
	assert.Equal(t, domain.StateClockedIn, reloaded.State(), "database keeps the open session")
}

func TestTracker_ManualBackEntry(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, _ := newTracker(t, repo)

	err := svc.AddManual(context.Background(), domain.ManualEntry{
		Date:         testutil.Day.AddDate(0, 0, -3),
		Start:        9 * time.Hour,
		End:          17 * time.Hour,
		Task:         "Project B",
		BreakMinutes: 30,
	})
	require.NoError(t, err)

	b, err := svc.Record(domain.KindBreak, 0)
	require.NoError(t, err)
	assert.Equal(t, "13:00", b.Start.Format("15:04"))
	assert.Equal(t, "13:30", b.End.Format("15:04"))
	assert.Equal(t, domain.ManualBreakType, b.Label)
	assert.Equal(t, domain.StateClockedOut, svc.State())
}

func TestTracker_EditAndDeleteShiftIndices(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, _ := newTracker(t, repo)
	ctx := context.Background()
	for i, task := range []string{"A", "B", "C"} {
		start := testutil.At(8+2*i, 0)
		require.NoError(t, svc.ClockIn(ctx, start, task))
		require.NoError(t, svc.ClockOut(ctx, start.Add(time.Hour)))
	}

	require.NoError(t, svc.Delete(ctx, domain.KindWork, 1))
	w, err := svc.Record(domain.KindWork, 1)
	require.NoError(t, err)
	assert.Equal(t, "C", w.Label)

	require.ErrorIs(t, svc.Delete(ctx, domain.KindWork, 2), domain.ErrIndexOutOfRange)

	require.NoError(t, svc.Edit(ctx, domain.KindWork, 1, testutil.At(12, 0), domain.TimePtr(testutil.At(12, 45)), "C2"))
	w, _ = svc.Record(domain.KindWork, 1)
	assert.Equal(t, "C2", w.Label)
	assert.Equal(t, 45*time.Minute, w.Duration(testutil.At(23, 0)))

	err = svc.Edit(ctx, domain.KindWork, 1, testutil.At(12, 0), domain.TimePtr(testutil.At(11, 0)), "")
	require.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestTracker_UnknownKindKeepsTotals(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, _ := newTracker(t, repo)
	ctx := context.Background()
	require.NoError(t, svc.ClockIn(ctx, testutil.At(9, 0), ""))
	require.NoError(t, svc.ClockOut(ctx, testutil.At(17, 0)))
	saves := repo.Saves

	err := svc.Edit(ctx, domain.Kind("Work"), 0, testutil.At(9, 0), domain.TimePtr(testutil.At(10, 0)), "")
	require.ErrorIs(t, err, domain.ErrUnknownKind)
	require.ErrorIs(t, svc.Delete(ctx, domain.Kind(""), 0), domain.ErrUnknownKind)

	assert.Equal(t, 8*time.Hour, svc.Summary(testutil.At(18, 0)).TotalWorked)
	assert.Equal(t, saves, repo.Saves)
}

func TestTracker_NotesPersist(t *testing.T) {
	repo := testutil.NewMemRepo()
	svc, _ := newTracker(t, repo)
	require.NoError(t, svc.SetNotes(context.Background(), "remember timesheet"))

	again, _ := newTracker(t, repo)
	assert.Equal(t, "remember timesheet", again.Notes())
}

func TestTracker_NotLoggedIn(t *testing.T) {
	svc := NewTrackerService(testutil.NewMemRepo(), tally.DefaultConfig())
	ctx := context.Background()

	require.ErrorIs(t, svc.ClockIn(ctx, time.Time{}, ""), ErrNotLoggedIn)
	require.ErrorIs(t, svc.SetNotes(ctx, "x"), ErrNotLoggedIn)
	assert.Equal(t, domain.StateClockedOut, svc.State())
	assert.Nil(t, svc.Records())
}

func TestTracker_LoginLoadError(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.LoadErr = domain.ErrPersistenceFormat
	svc := NewTrackerService(repo, tally.DefaultConfig())

	err := svc.Login(context.Background(), "ana")
	require.ErrorIs(t, err, domain.ErrPersistenceFormat)
	assert.Empty(t, svc.User())
}

func TestTracker_Snapshot(t *testing.T) {
	svc, _ := newTracker(t, testutil.NewMemRepo())
	ctx := context.Background()
	require.NoError(t, svc.ClockIn(ctx, testutil.At(8, 0), "Training"))
	require.NoError(t, svc.BreakStart(ctx, testutil.At(12, 0), "Lunch"))

	snap := svc.Snapshot(testutil.At(16, 30))
	assert.Equal(t, "ana", snap.User)
	assert.Equal(t, domain.StateOnBreak, snap.State)
	require.True(t, snap.LiveOK)
	assert.Equal(t, 4*time.Hour, snap.Live, "frozen at break start")
	require.NotNil(t, snap.OpenWork)
	require.NotNil(t, snap.OpenBreak)
	assert.Equal(t, "Training", snap.OpenWork.Label)
	assert.True(t, snap.OverThreshold)
	assert.Equal(t, 30*time.Minute, snap.Summary.Overtime)
}

func TestTracker_WatchStopsOnLogout(t *testing.T) {
	svc, _ := newTracker(t, testutil.NewMemRepo())
	var ticks atomic.Int32
	svc.Watch(context.Background(), time.Millisecond, func(Snapshot) { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)
	require.NoError(t, svc.Logout(context.Background()))

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after logout")
}

func TestTracker_WatchStopFunc(t *testing.T) {
	svc, _ := newTracker(t, testutil.NewMemRepo())
	var ticks atomic.Int32
	stop := svc.Watch(context.Background(), time.Millisecond, func(Snapshot) { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)
	stop()
	stop()
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}

func TestTracker_ObserverLogsUseCases(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := newTracker(t, testutil.NewMemRepo(), WithObserver(NewLogUseCaseObserver(&buf)))
	ctx := context.Background()

	require.NoError(t, svc.ClockIn(ctx, testutil.At(9, 0), "Meeting"))
	_ = svc.BreakEnd(ctx, testutil.At(9, 30))

	out := buf.String()
	assert.Contains(t, out, "use_case=clock_in")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "task=Meeting")
	assert.Contains(t, out, "user=ana")
	assert.Contains(t, out, "use_case=break_end")
	assert.Contains(t, out, "success=false")
	assert.Contains(t, out, "illegal transition")
}
