package availability

import (
	"fmt"
	"sort"
)

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Window is the effective operating window for one professional on one date.
// Break minutes use -1 when no break is defined. ExtraCandidates lists
// explicit slot start minutes evaluated in addition to the step grid; they
// are exempt from the closes-before-end rule but still checked against the
// break and the busy intervals.
type Window struct {
	Start           int
	End             int
	BreakStart      int
	BreakEnd        int
	ExtraCandidates []int
}

func (w Window) HasBreak() bool {
	return w.BreakStart >= 0 && w.BreakEnd > w.BreakStart
}

// Overlaps reports whether two half-open intervals intersect:
// [a.Start,a.End) overlaps [b.Start,b.End) iff a.Start < b.End && b.Start < a.End.
// Touching endpoints do not overlap, so back-to-back bookings are allowed.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// StartTimes returns the ascending, deduplicated start minutes at which a
// booking of length duration fits the window: it walks the step grid from
// the window start, drops candidates that would run past closing, into the
// break, or into a busy interval, then evaluates the window's explicit extra
// candidates under the same break/busy rules.
func StartTimes(w Window, duration, step int, busy []Interval) []int {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if w.End <= w.Start {
		return nil
	}

	seen := make(map[int]bool)
	var out []int
	for t := w.Start; t+duration <= w.End; t += step {
		if !fits(w, t, duration, busy) {
			continue
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	for _, t := range w.ExtraCandidates {
		// Extra candidates are exempt from the finish-after-closing rule;
		// a candidate at the closing minute itself is still valid.
		if t < w.Start || t > w.End {
			continue
		}
		if !fits(w, t, duration, busy) {
			continue
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	sort.Ints(out)
	return out
}

func fits(w Window, start, duration int, busy []Interval) bool {
	slot := Interval{Start: start, End: start + duration}
	if w.HasBreak() && Overlaps(slot, Interval{Start: w.BreakStart, End: w.BreakEnd}) {
		return false
	}
	for _, b := range busy {
		if Overlaps(slot, b) {
			return false
		}
	}
	return true
}

// FormatMinute renders a minute-of-day as wall-clock HH:MM.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatMinutes maps start minutes to HH:MM strings, preserving order.
func FormatMinutes(mins []int) []string {
	out := make([]string, 0, len(mins))
	for _, m := range mins {
		out = append(out, FormatMinute(m))
	}
	return out
}

// ParseMinute parses wall-clock HH:MM into a minute-of-day.
func ParseMinute(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}
