package schedule

import (
	"testing"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
)

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func TestResolve_SpecificRowOverridesGeneral(t *testing.T) {
	rows := []model.WeeklySchedule{
		{ID: "general", StartMinute: 540, EndMinute: 1080},
		{ID: "maria", ProfessionalID: strptr("p1"), StartMinute: 600, EndMinute: 960},
	}

	row, ok := Resolve(rows, "p1")
	if !ok || row.ID != "maria" {
		t.Fatalf("expected professional-specific row, got %+v (ok=%v)", row, ok)
	}

	row, ok = Resolve(rows, "p2")
	if !ok || row.ID != "general" {
		t.Fatalf("expected salon-wide row for p2, got %+v (ok=%v)", row, ok)
	}
}

func TestResolve_NoRowsMeansClosed(t *testing.T) {
	if _, ok := Resolve(nil, "p1"); ok {
		t.Fatal("expected closed day")
	}
	// A specific row for someone else does not open the day.
	rows := []model.WeeklySchedule{
		{ID: "other", ProfessionalID: strptr("p9"), StartMinute: 540, EndMinute: 1080},
	}
	if _, ok := Resolve(rows, "p1"); ok {
		t.Fatal("expected closed day when only another professional has a row")
	}
}

func TestResolve_RowsNeverMerged(t *testing.T) {
	rows := []model.WeeklySchedule{
		{ID: "general", StartMinute: 480, EndMinute: 1200, BreakStartMinute: intptr(720), BreakEndMinute: intptr(780)},
		{ID: "specific", ProfessionalID: strptr("p1"), StartMinute: 600, EndMinute: 960},
	}
	row, ok := Resolve(rows, "p1")
	if !ok {
		t.Fatal("expected a row")
	}
	if row.BreakStartMinute != nil {
		t.Fatal("general row's break must not leak into the specific row")
	}
	if row.StartMinute != 600 || row.EndMinute != 960 {
		t.Fatalf("expected the specific window only, got %+v", row)
	}
}

func TestToWindow(t *testing.T) {
	row := model.WeeklySchedule{
		StartMinute:      540,
		EndMinute:        1080,
		BreakStartMinute: intptr(720),
		BreakEndMinute:   intptr(780),
		ExtraSlotMinutes: []int{780},
	}
	w := ToWindow(row)
	if !w.HasBreak() || w.BreakStart != 720 || w.BreakEnd != 780 {
		t.Fatalf("break not carried: %+v", w)
	}
	if len(w.ExtraCandidates) != 1 || w.ExtraCandidates[0] != 780 {
		t.Fatalf("extra candidates not carried: %+v", w)
	}

	w = ToWindow(model.WeeklySchedule{StartMinute: 540, EndMinute: 1080})
	if w.HasBreak() {
		t.Fatal("no break expected")
	}
}
