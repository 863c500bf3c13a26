package reminder

import (
	"reflect"
	"testing"
	"time"
)

func TestDueThresholds(t *testing.T) {
	thresholds := []int{1440, 60}

	// Exactly at the 24h mark.
	got := DueThresholds(1440*time.Minute, thresholds, 2)
	if !reflect.DeepEqual(got, []int{1440}) {
		t.Fatalf("expected [1440], got %v", got)
	}

	// Just inside the tolerance window on either side.
	if got := DueThresholds(1441*time.Minute+30*time.Second, thresholds, 2); !reflect.DeepEqual(got, []int{1440}) {
		t.Fatalf("expected [1440], got %v", got)
	}
	if got := DueThresholds(58*time.Minute+30*time.Second, thresholds, 2); !reflect.DeepEqual(got, []int{60}) {
		t.Fatalf("expected [60], got %v", got)
	}

	// Outside the tolerance: missed windows are skipped, not backfilled.
	if got := DueThresholds(1443*time.Minute, thresholds, 2); got != nil {
		t.Fatalf("expected nothing due, got %v", got)
	}
	if got := DueThresholds(50*time.Minute, thresholds, 2); got != nil {
		t.Fatalf("expected nothing due, got %v", got)
	}
}

func TestReminderType(t *testing.T) {
	if got := ReminderType(1440); got != "1440m" {
		t.Fatalf("expected 1440m, got %s", got)
	}
	if got := ReminderType(60); got != "60m" {
		t.Fatalf("expected 60m, got %s", got)
	}
}

func TestHorizon(t *testing.T) {
	if got := Horizon([]int{1440, 60}, 2); got != 1442*time.Minute {
		t.Fatalf("expected 1442m horizon, got %s", got)
	}
	if got := Horizon(nil, 2); got != 2*time.Minute {
		t.Fatalf("expected 2m horizon, got %s", got)
	}
}
