package domain

import "time"

// WithinAvailability reports whether instant falls inside at least one of the
// doctor's weekly windows. The instant is interpreted in loc, the clinic
// timezone, and windows are half-open [start, end). Callers decide the policy
// for doctors with no windows at all; an empty slice here is always false.
func WithinAvailability(windows []AvailabilityWindow, instant time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	local := instant.In(loc)
	weekday := ISOWeekday(local.Weekday())
	minute := local.Hour()*60 + local.Minute()

	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		if minute >= w.StartMinute && minute < w.EndMinute {
			return true
		}
	}
	return false
}

// WindowsOverlap reports whether two windows of the same doctor collide on
// the same weekday. Used at write time; readers treat overlapping windows as
// available during their union.
func WindowsOverlap(a, b AvailabilityWindow) bool {
	if a.Weekday != b.Weekday {
		return false
	}
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// ISOWeekday converts Go's Sunday-based weekday to ISO-8601 (1=Monday ..
// 7=Sunday), the numbering availability windows are stored with.
func ISOWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
