package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeWithSessions returns n closed one-hour sessions on consecutive days.
func storeWithSessions(t *testing.T, n int) *domain.Store {
	t.Helper()
	opts := make([]testutil.StoreOption, n)
	for i := range opts {
		start := testutil.At(9, 0).AddDate(0, 0, i)
		opts[i] = testutil.WithWork(start, start.Add(time.Hour), "")
	}
	return testutil.NewTestStore(t, opts...)
}

// TestConcurrentAccess_ReadDuringSave checks that readers never observe a
// half-replaced record set while saves are running. The file-backed
// database is shared by every connection in the pool, as in WAL mode.
func TestConcurrentAccess_ReadDuringSave(t *testing.T) {
	database, _ := testutil.NewTestDBFile(t)
	repo := NewSQLiteRecordRepo(database)
	ctx := context.Background()
	const saves = 20

	versions := make([]*domain.Store, saves)
	for i := range versions {
		versions[i] = storeWithSessions(t, i+1)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i, s := range versions {
			if err := repo.Save(ctx, "ana", s, ""); err != nil {
				t.Errorf("writer: save %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			last := 0
			for i := 0; i < 15; i++ {
				s, _, err := repo.Load(ctx, "ana")
				if err != nil {
					t.Errorf("reader %d: load: %v", reader, err)
					return
				}
				n := s.Len(domain.KindWork)
				if n < last {
					t.Errorf("reader %d: saw %d records after %d", reader, n, last)
				}
				last = n
			}
		}(r)
	}

	wg.Wait()

	s, _, err := repo.Load(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, saves, s.Len(domain.KindWork))
}

// TestConcurrentAccess_UsersDoNotInterfere saves two users in parallel.
func TestConcurrentAccess_UsersDoNotInterfere(t *testing.T) {
	database, _ := testutil.NewTestDBFile(t)
	repo := NewSQLiteRecordRepo(database)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, u := range []struct {
		name string
		n    int
	}{{"ana", 3}, {"bo", 5}} {
		s := storeWithSessions(t, u.n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if err := repo.Save(ctx, u.name, s, u.name); err != nil {
					t.Errorf("%s: save: %v", u.name, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for name, want := range map[string]int{"ana": 3, "bo": 5} {
		s, notes, err := repo.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, want, s.Len(domain.KindWork), name)
		assert.Equal(t, name, notes)
	}
}
