package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Period bounds a statement, inclusive by day. A nil bound is open.
type Period struct {
	From *time.Time
	To   *time.Time
}

// ParseDay reads DD-MM-YYYY, YYYY-MM-DD or any ISO timestamp (only the date
// part is kept) at midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NewPeriod parses the bounds. From starts at 00:00:00 and To ends at
// 23:59:59.999 of their day. Empty strings leave the bound open.
func NewPeriod(from, to string, loc *time.Location) (Period, error) {
	var p Period
	if from != "" {
		t, err := ParseDay(from, loc)
		if err != nil {
			return p, err
		}
		p.From = &t
	}
	if to != "" {
		t, err := ParseDay(to, loc)
		if err != nil {
			return p, err
		}
		end := t.Add(24*time.Hour - time.Millisecond)
		p.To = &end
	}
	return p, nil
}

func (p Period) IsZero() bool { return p.From == nil && p.To == nil }

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	if p.From != nil && t.Before(*p.From) {
		return false
	}
	if p.To != nil && t.After(*p.To) {
		return false
	}
	return true
}
