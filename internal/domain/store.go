package domain

import (
	"fmt"
	"time"
)

// Store holds the work and break records of one user, each kind in
// creation order. A record's identity is its index within its kind.
//
// Every mutating method is atomic: it works on a copy, re-validates the
// invariants and only then commits. On error the store is unchanged.
type Store struct {
	work   []Record
	breaks []Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFrom builds a store from persisted records and validates it.
func NewStoreFrom(work, breaks []Record) (*Store, error) {
	s := &Store{
		work:   cloneRecords(work),
		breaks: cloneRecords(breaks),
	}
	for i := range s.work {
		s.work[i].Kind = KindWork
	}
	for i := range s.breaks {
		s.breaks[i].Kind = KindBreak
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Clone returns a deep copy.
func (s *Store) Clone() *Store {
	return &Store{work: cloneRecords(s.work), breaks: cloneRecords(s.breaks)}
}

// Records returns all work records followed by all break records.
func (s *Store) Records() []Record {
	out := make([]Record, 0, len(s.work)+len(s.breaks))
	out = append(out, cloneRecords(s.work)...)
	return append(out, cloneRecords(s.breaks)...)
}

// Works returns a copy of the work records.
func (s *Store) Works() []Record { return cloneRecords(s.work) }

// Breaks returns a copy of the break records.
func (s *Store) Breaks() []Record { return cloneRecords(s.breaks) }

// Len returns the number of records of the given kind.
func (s *Store) Len(kind Kind) int {
	return len(s.list(kind))
}

// At returns the record at index i of the given kind.
func (s *Store) At(kind Kind, i int) (Record, error) {
	if err := checkKind(kind); err != nil {
		return Record{}, err
	}
	list := s.list(kind)
	if i < 0 || i >= len(list) {
		return Record{}, fmt.Errorf("%s #%d of %d: %w", kind, i, len(list), ErrIndexOutOfRange)
	}
	return cloneRecord(list[i]), nil
}

// OpenWork returns the open work record, if any.
func (s *Store) OpenWork() (Record, bool) {
	return s.lastOpen(KindWork)
}

// OpenBreak returns the open break record, if any.
func (s *Store) OpenBreak() (Record, bool) {
	return s.lastOpen(KindBreak)
}

// AppendWork adds a work record at the tail. A nil end leaves it open.
func (s *Store) AppendWork(start time.Time, end *time.Time, task string) error {
	rec := NewRecord(KindWork, start, end, task)
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.mutate(func(next *Store) error {
		if rec.IsOpen() {
			if _, open := next.OpenWork(); open {
				return fmt.Errorf("append work: %w", ErrWorkAlreadyOpen)
			}
		}
		next.work = append(next.work, rec)
		return nil
	})
}

// AppendBreak adds a break record at the tail. It requires an open work
// record, and at most one break may be open.
func (s *Store) AppendBreak(start time.Time, end *time.Time, breakType string) error {
	rec := NewRecord(KindBreak, start, end, breakType)
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.mutate(func(next *Store) error {
		if _, open := next.OpenWork(); !open {
			return fmt.Errorf("append break: %w", ErrNoActiveWorkSession)
		}
		if rec.IsOpen() {
			if _, open := next.OpenBreak(); open {
				return fmt.Errorf("append break: %w", ErrBreakAlreadyOpen)
			}
		}
		next.breaks = append(next.breaks, rec)
		return nil
	})
}

// CloseLastOpen sets end on the most recently appended open record of kind.
func (s *Store) CloseLastOpen(kind Kind, end time.Time) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	return s.mutate(func(next *Store) error {
		list := next.list(kind)
		i := lastOpenIndex(list)
		if i < 0 {
			return fmt.Errorf("close %s: %w", kind, ErrNothingOpen)
		}
		list[i].End = TimePtr(end)
		return list[i].Validate()
	})
}

// Edit replaces the fields of record i. An empty label resets it to the
// kind's default; a nil end reopens the record.
func (s *Store) Edit(kind Kind, i int, start time.Time, end *time.Time, label string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	rec := NewRecord(kind, start, end, label)
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.mutate(func(next *Store) error {
		list := next.list(kind)
		if i < 0 || i >= len(list) {
			return fmt.Errorf("edit %s #%d of %d: %w", kind, i, len(list), ErrIndexOutOfRange)
		}
		list[i] = rec
		return nil
	})
}

// Delete removes record i; later records shift down by one.
func (s *Store) Delete(kind Kind, i int) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	return s.mutate(func(next *Store) error {
		list := next.list(kind)
		if i < 0 || i >= len(list) {
			return fmt.Errorf("delete %s #%d of %d: %w", kind, i, len(list), ErrIndexOutOfRange)
		}
		next.setList(kind, append(list[:i], list[i+1:]...))
		return nil
	})
}

// ManualEntry describes a back-dated work interval.
type ManualEntry struct {
	// Date is the calendar day; its clock part is ignored.
	Date time.Time
	// Start and End are offsets from local midnight of Date.
	Start time.Duration
	End   time.Duration
	Task  string
	// BreakMinutes > 0 adds a break centred at the midpoint of the interval.
	BreakMinutes int
}

// Interval resolves the entry into absolute start and end times.
func (e ManualEntry) Interval() (time.Time, time.Time) {
	y, m, d := e.Date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, e.Date.Location())
	return midnight.Add(e.Start), midnight.Add(e.End)
}

// ManualInsert records a closed work interval and, optionally, a break
// starting at its midpoint. The break must lie inside the work interval.
func (s *Store) ManualInsert(e ManualEntry) error {
	start, end := e.Interval()
	if !end.After(start) {
		return fmt.Errorf("manual entry %s–%s: %w",
			start.Format(time.DateTime), end.Format(time.DateTime), ErrInvalidInterval)
	}
	if e.BreakMinutes < 0 {
		return fmt.Errorf("manual entry break of %d minutes: %w", e.BreakMinutes, ErrInvalidInterval)
	}
	work := NewRecord(KindWork, start, TimePtr(end), e.Task)

	return s.mutate(func(next *Store) error {
		next.work = append(next.work, work)
		if e.BreakMinutes == 0 {
			return nil
		}
		breakStart := start.Add(end.Sub(start) / 2)
		breakEnd := breakStart.Add(time.Duration(e.BreakMinutes) * time.Minute)
		if breakEnd.After(*work.End) {
			return fmt.Errorf("manual break ends %s after work ends %s: %w",
				breakEnd.Format(time.TimeOnly), work.End.Format(time.TimeOnly), ErrNoActiveWorkSession)
		}
		next.breaks = append(next.breaks, NewRecord(KindBreak, breakStart, TimePtr(breakEnd), ManualBreakType))
		return nil
	})
}

func (s *Store) mutate(fn func(next *Store) error) error {
	next := s.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.validate(); err != nil {
		return err
	}
	*s = *next
	return nil
}

// validate checks every record and the open-record rules over the whole
// store.
func (s *Store) validate() error {
	openWork, openBreaks := 0, 0
	for _, r := range s.work {
		if r.Kind != KindWork {
			return fmt.Errorf("%s record in work list: %w", r.Kind, ErrUnknownKind)
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if r.IsOpen() {
			openWork++
		}
	}
	for _, r := range s.breaks {
		if r.Kind != KindBreak {
			return fmt.Errorf("%s record in break list: %w", r.Kind, ErrUnknownKind)
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if r.IsOpen() {
			openBreaks++
		}
	}
	switch {
	case openWork > 1:
		return fmt.Errorf("%d open work records: %w", openWork, ErrWorkAlreadyOpen)
	case openBreaks > 1:
		return fmt.Errorf("%d open break records: %w", openBreaks, ErrBreakAlreadyOpen)
	case openBreaks == 1 && openWork == 0:
		return fmt.Errorf("open break without open work: %w", ErrNoActiveWorkSession)
	}
	return nil
}

func checkKind(kind Kind) error {
	switch kind {
	case KindWork, KindBreak:
		return nil
	}
	return fmt.Errorf("kind %q: %w", kind, ErrUnknownKind)
}

// list returns nil for an unknown kind.
func (s *Store) list(kind Kind) []Record {
	switch kind {
	case KindWork:
		return s.work
	case KindBreak:
		return s.breaks
	}
	return nil
}

func (s *Store) setList(kind Kind, list []Record) {
	switch kind {
	case KindWork:
		s.work = list
	case KindBreak:
		s.breaks = list
	}
}

func (s *Store) lastOpen(kind Kind) (Record, bool) {
	list := s.list(kind)
	i := lastOpenIndex(list)
	if i < 0 {
		return Record{}, false
	}
	return cloneRecord(list[i]), true
}

func lastOpenIndex(list []Record) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].IsOpen() {
			return i
		}
	}
	return -1
}

func cloneRecord(r Record) Record {
	r.End = copyTime(r.End)
	return r
}

func cloneRecords(in []Record) []Record {
	if len(in) == 0 {
		return nil
	}
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = cloneRecord(r)
	}
	return out
}
