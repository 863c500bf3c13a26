package availability

import (
	"reflect"
	"testing"
)

func noBreak(start, end int) Window {
	return Window{Start: start, End: end, BreakStart: -1, BreakEnd: -1}
}

func TestStartTimes_PlainWindowIsArithmeticSequence(t *testing.T) {
	// 09:00-18:00, no break, 60 min service, 60 min step.
	got := StartTimes(noBreak(540, 1080), 60, 60, nil)
	want := []int{540, 600, 660, 720, 780, 840, 900, 960, 1020}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStartTimes_BreakAndClosing(t *testing.T) {
	// Window 09:00-18:00, break 12:00-13:00, 60 min service, 60 min step.
	w := Window{Start: 540, End: 1080, BreakStart: 720, BreakEnd: 780}
	got := FormatMinutes(StartTimes(w, 60, 60, nil))
	want := []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStartTimes_SlotEndingAtBreakStartAccepted(t *testing.T) {
	// Half-open semantics: a slot ending exactly at break start is fine,
	// and one starting exactly at break end is fine.
	w := Window{Start: 540, End: 1080, BreakStart: 600, BreakEnd: 630}
	got := StartTimes(w, 60, 30, nil)
	for _, m := range got {
		if m > 540 && m < 630 {
			t.Fatalf("slot %s intrudes into break", FormatMinute(m))
		}
	}
	if got[0] != 540 {
		t.Fatalf("expected 09:00 first, got %s", FormatMinute(got[0]))
	}
	if got[1] != 630 {
		t.Fatalf("expected resume at break end 10:30, got %s", FormatMinute(got[1]))
	}
}

func TestStartTimes_BusyIntervalsFiltered(t *testing.T) {
	// An 11:00-12:00 booking removes 10:30 and 11:00/11:30 candidates on a
	// 30-minute grid with a 60-minute service, but 12:00 is bookable
	// back-to-back.
	busy := []Interval{{Start: 660, End: 720}}
	got := StartTimes(noBreak(540, 780), 60, 30, busy)
	want := []int{540, 570, 600, 720}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStartTimes_NoSlotPastClosing(t *testing.T) {
	got := StartTimes(noBreak(540, 1080), 60, 60, nil)
	for _, m := range got {
		if m+60 > 1080 {
			t.Fatalf("slot %s would end past closing", FormatMinute(m))
		}
	}
}

func TestStartTimes_ExtraCandidateOffGrid(t *testing.T) {
	// 17:30 is off the 60-minute grid but configured as an explicit extra
	// candidate, so it is offered even though it ends past 18:00.
	w := Window{Start: 540, End: 1080, BreakStart: -1, BreakEnd: -1, ExtraCandidates: []int{1050}}
	got := StartTimes(w, 60, 60, nil)
	last := got[len(got)-1]
	if last != 1050 {
		t.Fatalf("expected extra candidate 17:30 offered last, got %s", FormatMinute(last))
	}
}

func TestStartTimes_ExtraCandidateAtClosingMinute(t *testing.T) {
	// The grid drops 18:00 because the service would run past closing, but
	// an explicit candidate at the closing minute itself is still offered.
	w := Window{Start: 540, End: 1080, BreakStart: -1, BreakEnd: -1, ExtraCandidates: []int{1080}}
	got := StartTimes(w, 60, 60, nil)
	if len(got) == 0 || got[len(got)-1] != 1080 {
		t.Fatalf("expected 18:00 offered via extra candidate, got %v", FormatMinutes(got))
	}
}

func TestStartTimes_ExtraCandidateStillChecksConflicts(t *testing.T) {
	w := Window{Start: 540, End: 1080, BreakStart: -1, BreakEnd: -1, ExtraCandidates: []int{1050}}
	busy := []Interval{{Start: 1020, End: 1080}}
	for _, m := range StartTimes(w, 60, 60, busy) {
		if m == 1050 {
			t.Fatal("extra candidate must still be rejected on conflict")
		}
	}
}

func TestStartTimes_ExtraCandidateDeduplicated(t *testing.T) {
	w := Window{Start: 540, End: 720, BreakStart: -1, BreakEnd: -1, ExtraCandidates: []int{600}}
	got := StartTimes(w, 60, 60, nil)
	want := []int{540, 600, 660}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStartTimes_AcceptedSlotsNeverOverlap(t *testing.T) {
	w := Window{Start: 540, End: 1080, BreakStart: 720, BreakEnd: 780}
	duration := 60
	got := StartTimes(w, duration, 60, []Interval{{Start: 840, End: 900}})
	for i, a := range got {
		for j, b := range got {
			if i == j {
				continue
			}
			if Overlaps(Interval{a, a + duration}, Interval{b, b + duration}) {
				t.Fatalf("slots %s and %s overlap", FormatMinute(a), FormatMinute(b))
			}
		}
	}
}

func TestStartTimes_EmptyWhenClosed(t *testing.T) {
	if got := StartTimes(Window{Start: 0, End: 0, BreakStart: -1, BreakEnd: -1}, 60, 60, nil); got != nil {
		t.Fatalf("expected no slots for a closed day, got %v", got)
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := Interval{Start: 540, End: 600}
	if Overlaps(a, Interval{Start: 600, End: 660}) {
		t.Fatal("touching intervals must not overlap")
	}
	if !Overlaps(a, Interval{Start: 599, End: 660}) {
		t.Fatal("expected overlap")
	}
	if Overlaps(a, Interval{Start: 480, End: 540}) {
		t.Fatal("touching intervals must not overlap")
	}
}

func TestFormatAndParseMinute(t *testing.T) {
	if got := FormatMinute(540); got != "09:00" {
		t.Fatalf("expected 09:00, got %s", got)
	}
	if got := FormatMinute(1050); got != "17:30" {
		t.Fatalf("expected 17:30, got %s", got)
	}
	m, err := ParseMinute("13:05")
	if err != nil || m != 785 {
		t.Fatalf("expected 785, got %d (%v)", m, err)
	}
	if _, err := ParseMinute("25:00"); err == nil {
		t.Fatal("expected error for 25:00")
	}
}
