package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

var clockLayouts = []string{"15:04", "15:04:05"}

var absoluteLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseClock reads HH:MM or HH:MM:SS as an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q (want HH:MM)", s)
}

// parseWhen resolves an --at style value. A bare time of day lands on
// base's date; anything else is tried as an absolute timestamp and then as
// natural language relative to now ("10 mins ago", "yesterday 17:00").
// An empty string yields the zero time.
func parseWhen(s string, base, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if off, err := parseClock(s); err == nil {
		return onDate(base, off), nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	t, err := parseNatural(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot understand time %q: %w", s, err)
	}
	return t, nil
}

// parseDate resolves a --date value to local midnight. Empty means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return midnight(now), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	t, err := parseNatural(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot understand date %q: %w", s, err)
	}
	return midnight(t), nil
}

func parseNatural(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: time.Local,
		Languages:       []string{"en"},
	}
	d, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, err
	}
	if d.Time.IsZero() {
		return time.Time{}, fmt.Errorf("no date found")
	}
	return d.Time.In(time.Local), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func onDate(day time.Time, off time.Duration) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local).Add(off)
}
