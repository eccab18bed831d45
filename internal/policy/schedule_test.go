package policy_test

import (
	"testing"
	"time"

	"attendly/api/internal/models"
	"attendly/api/internal/policy"
)

// 2025-06-02 is a Monday, 2025-06-07 a Saturday.
func at(day int, hour, minute int) time.Time {
	return time.Date(2025, 6, day, hour, minute, 0, 0, time.UTC)
}

func TestScheduleCheck(t *testing.T) {
	schedule := policy.Default()

	tests := []struct {
		name     string
		scanType models.ScanType
		now      time.Time
		wantOK   bool
	}{
		{"Weekday check-in at window start", models.ScanTypeCheckIn, at(2, 6, 0), true},
		{"Weekday check-in mid-window", models.ScanTypeCheckIn, at(3, 8, 30), true},
		{"Weekday check-in just before window end", models.ScanTypeCheckIn, at(2, 9, 59), true},
		{"Weekday check-in at window end is excluded", models.ScanTypeCheckIn, at(2, 10, 0), false},
		{"Weekday check-in past window end", models.ScanTypeCheckIn, at(2, 10, 59), false},
		{"Weekday check-in before window", models.ScanTypeCheckIn, at(2, 5, 59), false},
		{"Weekday check-in after window", models.ScanTypeCheckIn, at(2, 11, 0), false},
		{"Weekday check-in in the evening", models.ScanTypeCheckIn, at(4, 18, 0), false},
		{"Weekday check-out in window", models.ScanTypeCheckOut, at(2, 18, 15), true},
		{"Weekday check-out at midnight edge", models.ScanTypeCheckOut, at(2, 23, 59), true},
		{"Weekday check-out in the morning", models.ScanTypeCheckOut, at(2, 9, 0), false},
		{"Weekday check-out before window", models.ScanTypeCheckOut, at(2, 16, 59), false},
		{"Weekend check-in inside window", models.ScanTypeCheckIn, at(7, 9, 0), true},
		{"Weekend check-out inside window", models.ScanTypeCheckOut, at(7, 17, 30), true},
		{"Weekend scan at window end", models.ScanTypeCheckIn, at(7, 18, 59), true},
		{"Weekend scan too early", models.ScanTypeCheckIn, at(7, 7, 59), false},
		{"Weekend scan too late", models.ScanTypeCheckOut, at(8, 19, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schedule.Check(tt.scanType, tt.now)
			if (err == nil) != tt.wantOK {
				t.Errorf("Check(%s, %s) error = %v, wantOK %v", tt.scanType, tt.now, err, tt.wantOK)
			}
		})
	}
}

func TestScheduleCheckUnknownType(t *testing.T) {
	if err := policy.Default().Check(models.ScanType("BREAK"), at(2, 9, 0)); err == nil {
		t.Error("Check() accepted unknown scan type")
	}
}
