package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func window(weekday, startMinute, endMinute int) AvailabilityWindow {
	return AvailabilityWindow{
		ID:          uuid.New(),
		DoctorID:    uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Weekday:     weekday,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}
}

func TestWithinAvailability(t *testing.T) {
	// Monday 09:00-12:00
	windows := []AvailabilityWindow{window(1, 9*60, 12*60)}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	t.Run("inside window", func(t *testing.T) {
		if !WithinAvailability(windows, monday.Add(10*time.Hour), time.UTC) {
			t.Fatalf("10:00 Monday should be within 09:00-12:00")
		}
	})

	t.Run("start is inclusive", func(t *testing.T) {
		if !WithinAvailability(windows, monday.Add(9*time.Hour), time.UTC) {
			t.Fatalf("09:00 should be within [09:00, 12:00)")
		}
	})

	t.Run("end is exclusive", func(t *testing.T) {
		if WithinAvailability(windows, monday.Add(12*time.Hour), time.UTC) {
			t.Fatalf("12:00 should be outside [09:00, 12:00)")
		}
	})

	t.Run("outside window same day", func(t *testing.T) {
		if WithinAvailability(windows, monday.Add(13*time.Hour), time.UTC) {
			t.Fatalf("13:00 Monday should be outside")
		}
	})

	t.Run("other weekday", func(t *testing.T) {
		tuesday := monday.AddDate(0, 0, 1)
		if WithinAvailability(windows, tuesday.Add(10*time.Hour), time.UTC) {
			t.Fatalf("Tuesday should be outside a Monday-only schedule")
		}
	})

	t.Run("no windows is never available", func(t *testing.T) {
		if WithinAvailability(nil, monday.Add(10*time.Hour), time.UTC) {
			t.Fatalf("empty window set must report false; the open-by-default policy lives in the caller")
		}
	})

	t.Run("union of overlapping windows", func(t *testing.T) {
		overlapping := []AvailabilityWindow{
			window(1, 9*60, 11*60),
			window(1, 10*60, 13*60),
		}
		for _, h := range []int{9, 10, 11, 12} {
			if !WithinAvailability(overlapping, monday.Add(time.Duration(h)*time.Hour), time.UTC) {
				t.Fatalf("%02d:00 should be available in the union", h)
			}
		}
	})

	t.Run("timezone shifts the weekday", func(t *testing.T) {
		lima, err := time.LoadLocation("America/Lima")
		if err != nil {
			t.Fatalf("LoadLocation error: %v", err)
		}
		// 02:00 UTC Tuesday is still 21:00 Monday in Lima (UTC-5).
		instant := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)
		evening := []AvailabilityWindow{window(1, 20*60, 22*60)}
		if !WithinAvailability(evening, instant, lima) {
			t.Fatalf("instant should land inside Monday evening in Lima")
		}
		if WithinAvailability(evening, instant, time.UTC) {
			t.Fatalf("same instant is Tuesday in UTC and should be outside")
		}
	})
}

func TestISOWeekday(t *testing.T) {
	cases := []struct {
		in   time.Weekday
		want int
	}{
		{time.Monday, 1},
		{time.Wednesday, 3},
		{time.Saturday, 6},
		{time.Sunday, 7},
	}
	for _, tc := range cases {
		if got := ISOWeekday(tc.in); got != tc.want {
			t.Fatalf("ISOWeekday(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestWindowsOverlap(t *testing.T) {
	base := window(2, 9*60, 12*60)

	if !WindowsOverlap(base, window(2, 11*60, 14*60)) {
		t.Fatalf("partially overlapping windows should overlap")
	}
	if !WindowsOverlap(base, window(2, 10*60, 11*60)) {
		t.Fatalf("contained window should overlap")
	}
	if WindowsOverlap(base, window(2, 12*60, 14*60)) {
		t.Fatalf("adjacent windows share only the boundary and do not overlap")
	}
	if WindowsOverlap(base, window(3, 9*60, 12*60)) {
		t.Fatalf("same hours on another weekday do not overlap")
	}
}
