package cashflow

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of report dates
const DateLayout = "2006-01-02"

var (
	ErrPartialWindow  = errors.New("date_from and date_to must be provided together")
	ErrInvertedWindow = errors.New("date_from must not be after date_to")
	ErrInvalidDate    = errors.New("invalid date")
)

// Window is an inclusive date range over cash_flows.date
type Window struct {
	From time.Time `json:"date_from"`
	To   time.Time `json:"date_to"`
}

// NewWindow builds an optional window from two optional bounds.
// Both nil yields a nil window (no date filter).
func NewWindow(from, to *time.Time) (*Window, error) {
	if from == nil && to == nil {
		return nil, nil
	}
	if from == nil || to == nil {
		return nil, ErrPartialWindow
	}
	w := &Window{From: truncateDay(*from), To: truncateDay(*to)}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseWindow builds an optional window from two YYYY-MM-DD strings; empty means absent
func ParseWindow(from, to string) (*Window, error) {
	var bounds [2]*time.Time
	for i, raw := range []string{from, to} {
		if raw == "" {
			continue
		}
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w %q, expected %s", ErrInvalidDate, raw, DateLayout)
		}
		bounds[i] = &t
	}
	return NewWindow(bounds[0], bounds[1])
}

// DayWindow covers a single calendar day
func DayWindow(day time.Time) Window {
	d := truncateDay(day)
	return Window{From: d, To: d}
}

// Validate rejects zero bounds and inverted ranges
func (w Window) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return ErrPartialWindow
	}
	if w.From.After(w.To) {
		return ErrInvertedWindow
	}
	return nil
}

func (w Window) String() string {
	return w.From.Format(DateLayout) + ".." + w.To.Format(DateLayout)
}

// truncateDay keeps the calendar date of t as UTC midnight
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
