// Package codec converts a store and its notes to and from the records.json
// document:
//
//	{
//	  "work_sessions":  [{"start": "..." | null, "end": "..." | null, "task": "..."}],
//	  "break_sessions": [{"start": "..." | null, "end": "..." | null, "type": "..."}],
//	  "notes": "..."
//	}
//
// Timestamps are local wall-clock ISO-8601 without an offset.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// TimestampLayout is the layout written for start and end. Fractional
// seconds are emitted only when present.
const TimestampLayout = "2006-01-02T15:04:05.999999999"

// parseLayout also accepts any number of fractional digits.
const parseLayout = "2006-01-02T15:04:05"

type document struct {
	WorkSessions  []workEntry  `json:"work_sessions"`
	BreakSessions []breakEntry `json:"break_sessions"`
	Notes         string       `json:"notes"`
}

type workEntry struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
	Task  string  `json:"task"`
}

type breakEntry struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
	Type  string  `json:"type"`
}

// Encode serializes the store and notes.
func Encode(s *domain.Store, notes string) ([]byte, error) {
	doc := document{
		WorkSessions:  []workEntry{},
		BreakSessions: []breakEntry{},
		Notes:         notes,
	}
	for _, r := range s.Works() {
		start, end := formatInterval(r)
		doc.WorkSessions = append(doc.WorkSessions, workEntry{Start: start, End: end, Task: r.Label})
	}
	for _, r := range s.Breaks() {
		start, end := formatInterval(r)
		doc.BreakSessions = append(doc.BreakSessions, breakEntry{Start: start, End: end, Type: r.Label})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	return data, nil
}

// Decode parses a document. Any syntax, timestamp or invariant problem is
// reported as domain.ErrPersistenceFormat. Rows without a start are
// dropped; DecodeReport names them.
func Decode(data []byte) (*domain.Store, string, error) {
	s, notes, _, err := DecodeReport(data)
	return s, notes, err
}

// DecodeReport is Decode that also returns the positions of dropped rows,
// such as "work_sessions[2]".
func DecodeReport(data []byte) (s *domain.Store, notes string, dropped []string, err error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", nil, formatErr("parsing records", err)
	}

	rows := func(field string, kind domain.Kind, n int, at func(int) (start, end *string, label string)) ([]domain.Record, error) {
		out := make([]domain.Record, 0, n)
		for i := 0; i < n; i++ {
			start, end, label := at(i)
			if start == nil {
				dropped = append(dropped, fmt.Sprintf("%s[%d]", field, i))
				continue
			}
			r, err := parseRecord(kind, *start, end, label)
			if err != nil {
				return nil, formatErr(fmt.Sprintf("%s[%d]", field, i), err)
			}
			out = append(out, r)
		}
		return out, nil
	}

	work, err := rows("work_sessions", domain.KindWork, len(doc.WorkSessions), func(i int) (*string, *string, string) {
		e := doc.WorkSessions[i]
		return e.Start, e.End, e.Task
	})
	if err != nil {
		return nil, "", nil, err
	}
	breaks, err := rows("break_sessions", domain.KindBreak, len(doc.BreakSessions), func(i int) (*string, *string, string) {
		e := doc.BreakSessions[i]
		return e.Start, e.End, e.Type
	})
	if err != nil {
		return nil, "", nil, err
	}

	s, err = domain.NewStoreFrom(work, breaks)
	if err != nil {
		return nil, "", nil, formatErr("validating records", err)
	}
	return s, doc.Notes, dropped, nil
}

// FormatTimestamp renders t as a naive local timestamp.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

// ParseTimestamp reads a naive timestamp as local wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(parseLayout, s, time.Local)
}

func formatInterval(r domain.Record) (*string, *string) {
	start := FormatTimestamp(r.Start)
	if r.End == nil {
		return &start, nil
	}
	end := FormatTimestamp(*r.End)
	return &start, &end
}

func parseRecord(kind domain.Kind, start string, end *string, label string) (domain.Record, error) {
	st, err := ParseTimestamp(start)
	if err != nil {
		return domain.Record{}, fmt.Errorf("start: %w", err)
	}
	var en *time.Time
	if end != nil {
		t, err := ParseTimestamp(*end)
		if err != nil {
			return domain.Record{}, fmt.Errorf("end: %w", err)
		}
		en = &t
	}
	return domain.NewRecord(kind, st, en, label), nil
}

func formatErr(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, domain.ErrPersistenceFormat, err)
}
