package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeRecord(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"morning", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), "Monday - 01/01/2024 - 8:00 AM"},
		{"afternoon", time.Date(2024, 1, 1, 17, 5, 0, 0, time.UTC), "Monday - 01/01/2024 - 5:05 PM"},
		{"midnight", time.Date(2023, 6, 5, 0, 30, 0, 0, time.UTC), "Monday - 05/06/2023 - 12:30 AM"},
		{"noon", time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), "Sunday - 31/12/2023 - 12:00 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTimeRecord(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, ValidRecord(got))
		})
	}
}

func TestParseDateTimeInput(t *testing.T) {
	got, err := ParseDateTimeInput("2024-01-01T08:00")
	require.NoError(t, err)
	assert.Equal(t, "Monday - 01/01/2024 - 8:00 AM", FormatTimeRecord(got))

	got, err = ParseDateTimeInput(" 2024-01-01 17:00 ")
	require.NoError(t, err)
	assert.Equal(t, 17, got.Hour())

	_, err = ParseDateTimeInput("")
	assert.ErrorIs(t, err, ErrInvalidDateTime)

	_, err = ParseDateTimeInput("yesterday")
	assert.ErrorIs(t, err, ErrInvalidDateTime)
}

func TestValidRecord(t *testing.T) {
	assert.True(t, ValidRecord("Monday - 05/06/2023 - 9:05 AM"))
	assert.True(t, ValidRecord("Friday - 05/06/2023 - 12:45 PM"))
	assert.False(t, ValidRecord("Monday - 5/6/2023 - 9:05 AM"))
	assert.False(t, ValidRecord("Monday - 05/06/2023 - "))
	assert.False(t, ValidRecord("Monday - 05/06/2023 - 9:05 am"))
}

func TestSplitAndJoinRecord(t *testing.T) {
	day, date, clock, ok := SplitRecord("Monday - 01/01/2024 - 8:00 AM")
	require.True(t, ok)
	assert.Equal(t, "Monday", day)
	assert.Equal(t, "01/01/2024", date)
	assert.Equal(t, "8:00 AM", clock)
	assert.Equal(t, "Monday - 01/01/2024 - 8:00 AM", JoinRecord(day, date, clock))

	_, _, _, ok = SplitRecord("free text")
	assert.False(t, ok)
}
