package schedule

import (
	"testing"
	"time"
)

func TestSlotsTemplate(t *testing.T) {
	slots := Slots()
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	if slots[0] != "09:00" || slots[len(slots)-1] != "18:30" {
		t.Fatalf("unexpected boundary slots: %v", slots)
	}
	for _, s := range slots {
		if s == "13:00" || s == "13:30" {
			t.Fatalf("lunch break slot leaked into template: %v", slots)
		}
	}
	if slots[7] != "12:30" || slots[8] != "14:00" {
		t.Fatalf("unexpected slots around the midday gap: %v", slots)
	}
}

func TestIsSlot(t *testing.T) {
	cases := []struct {
		time string
		want bool
	}{
		{"09:00", true},
		{"12:30", true},
		{"18:30", true},
		{"13:00", false},
		{"19:00", false},
		{"09:15", false},
		{"am", false},
	}
	for _, tc := range cases {
		if got := IsSlot(tc.time); got != tc.want {
			t.Errorf("IsSlot(%q) = %v, want %v", tc.time, got, tc.want)
		}
	}
}

func TestFilterBooked(t *testing.T) {
	booked := map[string]bool{"09:30": true, "14:00": true}
	filtered := FilterBooked(booked)
	if len(filtered) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(filtered))
	}
	for _, s := range filtered {
		if booked[s] {
			t.Fatalf("booked slot %s not filtered: %v", s, filtered)
		}
	}
	if filtered[0] != "09:00" || filtered[1] != "10:00" {
		t.Fatalf("order not preserved: %v", filtered)
	}
}

func TestFilterBookedEmpty(t *testing.T) {
	filtered := FilterBooked(nil)
	if len(filtered) != 18 {
		t.Fatalf("expected full template, got %d", len(filtered))
	}
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	date, err := ParseDate("2026-02-02", loc)
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if date.Year() != 2026 || date.Month() != time.February || date.Day() != 2 {
		t.Fatalf("unexpected date: %v", date)
	}
	if _, err := ParseDate("02/02/2026", loc); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseClockToMinutes(t *testing.T) {
	min, err := ParseClockToMinutes("14:30")
	if err != nil {
		t.Fatalf("ParseClockToMinutes error: %v", err)
	}
	if min != 14*60+30 {
		t.Fatalf("expected %d, got %d", 14*60+30, min)
	}
	if _, err := ParseClockToMinutes("25:61"); err != ErrInvalidTime {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	if MinutesToClock(9*60) != "09:00" {
		t.Fatalf("MinutesToClock(540) = %s", MinutesToClock(9*60))
	}
}
