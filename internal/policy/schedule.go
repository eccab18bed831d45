package policy

import (
	"fmt"
	"time"

	"attendly/api/internal/models"
)

// Window is a half-open range of whole hours, [StartHour, EndHour):
// a Window{6, 10} admits any time from 06:00:00 through 09:59:59.
type Window struct {
	StartHour int
	EndHour   int
}

func (w Window) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.StartHour, w.EndHour)
}

// Schedule holds the time-of-day admissibility rules for scans. The bounds
// are configuration, not constants baked into the validator, so they can be
// made per-company later without touching the pipeline.
type Schedule struct {
	Weekend         Window
	WeekdayCheckIn  Window
	WeekdayCheckOut Window
}

// Default mirrors the standard office policy: check-in mornings, check-out
// evenings, a single wide window on weekends.
func Default() Schedule {
	return Schedule{
		Weekend:         Window{StartHour: 8, EndHour: 19},
		WeekdayCheckIn:  Window{StartHour: 6, EndHour: 10},
		WeekdayCheckOut: Window{StartHour: 17, EndHour: 24},
	}
}

// Check reports whether a scan of the given type is admissible at the given
// moment. A nil return means admissible; otherwise the error carries the
// user-facing restriction message.
func (s Schedule) Check(scanType models.ScanType, now time.Time) error {
	weekday := now.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		if !s.Weekend.Contains(now) {
			return fmt.Errorf("weekend scans are only allowed between %s", s.Weekend)
		}
		return nil
	}

	switch scanType {
	case models.ScanTypeCheckIn:
		if !s.WeekdayCheckIn.Contains(now) {
			return fmt.Errorf("check-in is only allowed between %s on weekdays", s.WeekdayCheckIn)
		}
	case models.ScanTypeCheckOut:
		if !s.WeekdayCheckOut.Contains(now) {
			return fmt.Errorf("check-out is only allowed between %s on weekdays", s.WeekdayCheckOut)
		}
	default:
		return fmt.Errorf("unknown scan type %q", scanType)
	}
	return nil
}
