package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RecordPattern is the canonical TimeRecord shape:
// "<Weekday> - <DD/MM/YYYY> - <H:MM AM/PM>".
var RecordPattern = regexp.MustCompile(`^\w+ - \d{2}/\d{2}/\d{4} - \d{1,2}:\d{2} [AP]M$`)

const recordSeparator = " - "

var dateTimeInputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatTimeRecord renders t as a TimeRecord display string.
func FormatTimeRecord(t time.Time) string {
	return fmt.Sprintf("%s - %02d/%02d/%d - %s", t.Weekday(), t.Day(), int(t.Month()), t.Year(), t.Format("3:04 PM"))
}

// ParseDateTimeInput accepts the values a datetime-local or picker input submits.
func ParseDateTimeInput(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	for _, layout := range dateTimeInputLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, value)
}

// ValidRecord reports whether s has the canonical TimeRecord shape.
func ValidRecord(s string) bool {
	return RecordPattern.MatchString(s)
}

// SplitRecord returns the weekday, date and time parts of a record.
func SplitRecord(record string) (day, date, clock string, ok bool) {
	parts := strings.Split(record, recordSeparator)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// JoinRecord is the inverse of SplitRecord.
func JoinRecord(day, date, clock string) string {
	return day + recordSeparator + date + recordSeparator + clock
}
