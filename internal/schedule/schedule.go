package schedule

import (
	"errors"
	"fmt"
	"time"
)

// SlotMinutes is the length of every bookable slot. The salon day is a
// fixed template: half-hour slots from 09:00 through 12:30 and from
// 14:00 through 18:30, 18 labels total, identical for every working day.
const SlotMinutes = 30

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidTime = errors.New("invalid time format")
)

type TimeRange struct {
	Start string
	End   string
}

func dayRanges() []TimeRange {
	return []TimeRange{
		{Start: "09:00", End: "13:00"},
		{Start: "14:00", End: "19:00"},
	}
}

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Slots returns the daily template in chronological order.
func Slots() []string {
	slots := make([]string, 0, 18)
	for _, tr := range dayRanges() {
		startMin, err := ParseClockToMinutes(tr.Start)
		if err != nil {
			continue
		}
		endMin, err := ParseClockToMinutes(tr.End)
		if err != nil {
			continue
		}
		for cursor := startMin; cursor+SlotMinutes <= endMin; cursor += SlotMinutes {
			slots = append(slots, MinutesToClock(cursor))
		}
	}
	return slots
}

func IsSlot(timeStr string) bool {
	for _, s := range Slots() {
		if s == timeStr {
			return true
		}
	}
	return false
}

// FilterBooked returns the template minus already-taken labels,
// preserving order.
func FilterBooked(booked map[string]bool) []string {
	slots := Slots()
	filtered := make([]string, 0, len(slots))
	for _, s := range slots {
		if !booked[s] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
