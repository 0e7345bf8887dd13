package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/gookit/validate"
)

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Schedule struct {
	StartDay  string `json:"start_day" yaml:"start_day" validate:"required|in:Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday"`
	StartTime string `json:"start_time" yaml:"start_time" validate:"required"`
	EndDay    string `json:"end_day" yaml:"end_day" validate:"required|in:Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday"`
	EndTime   string `json:"end_time" yaml:"end_time" validate:"required"`
}

// Validate checks that every field is filled and both days are weekdays.
func (s Schedule) Validate() error {
	v := validate.Struct(&s)
	if v.Validate() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidSchedule, v.Errors.One())
}

// Normalize trims the fields and converts 24h times to "H:MM AM/PM".
// A missing end day is inferred: the start day, or the next day when the
// shift ends at or before it starts.
func (s Schedule) Normalize() (Schedule, error) {
	out := Schedule{
		StartDay: strings.TrimSpace(s.StartDay),
		EndDay:   strings.TrimSpace(s.EndDay),
	}
	var err error
	if out.StartTime, err = NormalizeClock(s.StartTime); err != nil {
		return Schedule{}, err
	}
	if out.EndTime, err = NormalizeClock(s.EndTime); err != nil {
		return Schedule{}, err
	}
	if out.EndDay == "" && out.StartDay != "" {
		out.EndDay = out.StartDay
		if clockMinutes(out.EndTime) <= clockMinutes(out.StartTime) {
			out.EndDay = NextWeekday(out.StartDay)
		}
	}
	return out, nil
}

// clockMinutes expects a value already produced by NormalizeClock.
func clockMinutes(value string) int {
	t, err := time.Parse("3:04 PM", value)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// NormalizeClock turns "14:30" into "2:30 PM" and re-renders 12h input
// such as "09:05 am" as "9:05 AM".
func NormalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: time is required", ErrInvalidSchedule)
	}
	upper := strings.ToUpper(value)
	for _, layout := range []string{"3:04 PM", "03:04 PM", "15:04", "15:04:05"} {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format("3:04 PM"), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognised time %q", ErrInvalidSchedule, value)
}

// DisplayClock is NormalizeClock that falls back to the raw value.
func DisplayClock(value string) string {
	if out, err := NormalizeClock(value); err == nil {
		return out
	}
	return strings.TrimSpace(value)
}

// NextWeekday returns the day after day, or day itself when unknown.
func NextWeekday(day string) string {
	for i, d := range Weekdays {
		if d == day {
			return Weekdays[(i+1)%len(Weekdays)]
		}
	}
	return day
}
