package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateFilter selects a relative time window over order dates.
type DateFilter string

const (
	DateAll   DateFilter = "all"
	DateToday DateFilter = "today"
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
)

// StatusFilter selects orders by exact status. StatusAll disables the check.
type StatusFilter string

const StatusAll StatusFilter = "all"

var ErrInvalidDateFilter = errors.New("invalid date filter")

// ParseDateFilter converts user input into a DateFilter. Empty input means DateAll.
func ParseDateFilter(s string) (DateFilter, error) {
	switch f := DateFilter(strings.TrimSpace(s)); f {
	case "":
		return DateAll, nil
	case DateAll, DateToday, DateWeek, DateMonth:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDateFilter, s)
	}
}

// ParseStatusFilter converts user input into a StatusFilter. Empty input
// means StatusAll; anything else is matched literally.
func ParseStatusFilter(s string) StatusFilter {
	if s == "" {
		return StatusAll
	}
	return StatusFilter(s)
}

// Selection is the pair of filters applied to an order list. The zero
// Selection matches every order.
type Selection struct {
	Status StatusFilter `json:"status"`
	Date   DateFilter   `json:"date"`
}

// Everything returns the selection that keeps all orders.
func Everything() Selection {
	return Selection{Status: StatusAll, Date: DateAll}
}

// IsZero reports whether the selection filters nothing out.
func (s Selection) IsZero() bool {
	return s.statusDisabled() && s.dateDisabled()
}

func (s Selection) statusDisabled() bool {
	return s.Status == "" || s.Status == StatusAll
}

func (s Selection) dateDisabled() bool {
	return s.Date == "" || s.Date == DateAll
}

// IsVisible reports whether order passes both the status and the date check
// at instant now. The order's date is resolved from its code in now's
// location; orders without a resolvable date never pass an active date filter.
func (s Selection) IsVisible(order Order, now time.Time) bool {
	if !s.statusDisabled() && string(order.Status) != string(s.Status) {
		return false
	}

	if s.dateDisabled() {
		return true
	}

	date, ok := ResolveDate(order.Code, now.Location())
	if !ok {
		return false
	}
	return inDateRange(date, s.Date, now)
}

// inDateRange checks date against the window ending at now. The lower bound
// is a local midnight, the upper bound is the instant now itself.
func inDateRange(date time.Time, filter DateFilter, now time.Time) bool {
	todayStart := startOfDay(now)

	switch filter {
	case DateToday:
		return startOfDay(date).Equal(todayStart)
	case DateWeek:
		return within(date, todayStart.AddDate(0, 0, -7), now)
	case DateMonth:
		// AddDate normalises overflow: a month before March 31 is March 3 (or 2).
		return within(date, todayStart.AddDate(0, -1, 0), now)
	default:
		return true
	}
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// Filter returns the orders visible under sel, preserving their relative
// order. The input slice is not modified.
func Filter(orders []Order, sel Selection, now time.Time) []Order {
	visible := make([]Order, 0, len(orders))
	for _, o := range orders {
		if sel.IsVisible(o, now) {
			visible = append(visible, o)
		}
	}
	return visible
}
