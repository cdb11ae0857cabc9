package date

import (
	"fmt"
	"strings"
)

// Window is a named lookback horizon for time-series reports.
type Window int

const (
	// Window1M covers the trailing month.
	Window1M Window = iota
	// Window3M covers the trailing three months.
	Window3M
	// Window6M covers the trailing six months.
	Window6M
	// Window12M covers the trailing year.
	Window12M
	// Window60M covers the trailing five years.
	Window60M
	// WindowYTD starts on January 1 of the end date's year.
	WindowYTD
	// WindowMax covers the full history since the earliest known activity.
	WindowMax
)

func (w Window) String() string {
	switch w {
	case Window1M:
		return "1m"
	case Window3M:
		return "3m"
	case Window6M:
		return "6m"
	case Window12M:
		return "12m"
	case Window60M:
		return "60m"
	case WindowYTD:
		return "ytd"
	case WindowMax:
		return "max"
	default:
		panic(fmt.Sprintf("unknown window %d", w))
	}
}

// ParseWindow parses a window name like "1m", "ytd" or "max".
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(s) {
	case "1m", "month":
		return Window1M, nil
	case "3m":
		return Window3M, nil
	case "6m":
		return Window6M, nil
	case "12m", "1y", "year":
		return Window12M, nil
	case "60m", "5y":
		return Window60M, nil
	case "ytd":
		return WindowYTD, nil
	case "max", "all":
		return WindowMax, nil
	default:
		return Window1M, fmt.Errorf("unknown window %q", s)
	}
}

// Resolve computes the concrete date range for the window ending on 'end'.
// The start is clamped so it never precedes 'earliest' (the first known
// activity) and never precedes the requested lookback horizon.
func (w Window) Resolve(end, earliest Date) Range {
	var start Date
	switch w {
	case Window1M:
		start = end.AddMonths(-1)
	case Window3M:
		start = end.AddMonths(-3)
	case Window6M:
		start = end.AddMonths(-6)
	case Window12M:
		start = end.AddMonths(-12)
	case Window60M:
		start = end.AddMonths(-60)
	case WindowYTD:
		start = end.StartOfYear()
	case WindowMax:
		start = earliest
	}
	if !earliest.IsZero() {
		start = Max(start, earliest)
	}
	return Range{From: start, To: end}
}
