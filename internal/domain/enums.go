package domain

import "fmt"

// Kind tags a Record as a work interval or a break interval.
type Kind string

const (
	KindWork  Kind = "work"
	KindBreak Kind = "break"
)

// ParseKind accepts "work" or "break" (case-sensitive, as stored).
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindWork, KindBreak:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%q (want work or break): %w", s, ErrUnknownKind)
}

// State is the clock state derived from the contents of a Store.
type State string

const (
	StateClockedOut State = "clocked_out"
	StateClockedIn  State = "clocked_in"
	StateOnBreak    State = "on_break"
)

// Default labels.
const (
	DefaultTask      = "General Work"
	DefaultBreakType = "Lunch"
	ManualBreakType  = "Manual Break"
)

// DefaultTasks is the suggestion list offered for work labels.
var DefaultTasks = []string{"General Work", "Project A", "Project B", "Meeting", "Training"}

// DefaultBreakTypes is the suggestion list offered for break labels.
var DefaultBreakTypes = []string{"Lunch", "Short Break", "Meeting", "Personal"}
