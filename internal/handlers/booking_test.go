package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
)

func TestReplayStored(t *testing.T) {
	rec := storage.IdempotencyRecord{
		Key:             "k1",
		StatusCode:      200,
		ResponsePayload: []byte(`{"items":[{"appointment_id":"a1"}]}`),
	}

	w := httptest.NewRecorder()
	replayStored(w, rec)

	if w.Code != 200 {
		t.Fatalf("expected stored status replayed, got %d", w.Code)
	}
	if got := w.Body.String(); got != string(rec.ResponsePayload) {
		t.Fatalf("expected stored payload replayed verbatim, got %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
}

func TestReplayStored_EmptyPayloadStillCarriesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	replayStored(w, storage.IdempotencyRecord{Key: "k2", StatusCode: 409})
	if w.Code != 409 {
		t.Fatalf("expected 409 replay, got %d", w.Code)
	}
}

func TestParseDayTime(t *testing.T) {
	got, err := parseDayTime("2026-09-01", "09:30")
	if err != nil {
		t.Fatalf("parseDayTime failed: %v", err)
	}
	if got.Year() != 2026 || int(got.Month()) != 9 || got.Day() != 1 {
		t.Fatalf("wrong date: %v", got)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("wrong time of day: %v", got)
	}
}

func TestParseDayTime_Invalid(t *testing.T) {
	cases := [][2]string{
		{"not-a-date", "09:00"},
		{"2026-09-01", "25:00"},
		{"2026-09-01", "nine"},
	}
	for _, c := range cases {
		if _, err := parseDayTime(c[0], c[1]); err == nil {
			t.Errorf("expected error for (%q, %q)", c[0], c[1])
		}
	}
}
