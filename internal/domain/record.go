package domain

import (
	"fmt"
	"time"
)

// Record is one contiguous work or break interval. End is nil while the
// record is open.
type Record struct {
	Kind  Kind
	Start time.Time
	End   *time.Time
	Label string
}

// NewRecord builds a record, filling in the default label for its kind.
func NewRecord(kind Kind, start time.Time, end *time.Time, label string) Record {
	if label == "" {
		label = DefaultLabel(kind)
	}
	return Record{Kind: kind, Start: start, End: copyTime(end), Label: label}
}

// DefaultLabel returns the label used when none is given.
func DefaultLabel(kind Kind) string {
	if kind == KindBreak {
		return DefaultBreakType
	}
	return DefaultTask
}

// IsOpen reports whether the record has no end yet.
func (r Record) IsOpen() bool {
	return r.End == nil
}

// Date is the local calendar date the record belongs to (midnight of Start).
func (r Record) Date() time.Time {
	y, m, d := r.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Start.Location())
}

// Duration returns (end or asOf) - start.
func (r Record) Duration(asOf time.Time) time.Duration {
	if r.End != nil {
		return r.End.Sub(r.Start)
	}
	return asOf.Sub(r.Start)
}

// Validate rejects an end before the start.
func (r Record) Validate() error {
	if r.End != nil && r.End.Before(r.Start) {
		return fmt.Errorf("%s %s–%s: %w", r.Kind,
			r.Start.Format(time.TimeOnly), r.End.Format(time.TimeOnly), ErrInvalidInterval)
	}
	return nil
}

// Equal compares kind, start, end and label; locations and monotonic
// readings are ignored.
func (r Record) Equal(o Record) bool {
	if r.Kind != o.Kind || r.Label != o.Label || !r.Start.Equal(o.Start) {
		return false
	}
	if r.End == nil || o.End == nil {
		return r.End == nil && o.End == nil
	}
	return r.End.Equal(*o.End)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// TimePtr returns a pointer to t. Handy for building closed records.
func TimePtr(t time.Time) *time.Time {
	return &t
}
