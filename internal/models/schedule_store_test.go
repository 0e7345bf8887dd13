package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayShift() Schedule {
	return Schedule{StartDay: "Monday", StartTime: "8:00 AM", EndDay: "Monday", EndTime: "5:00 PM"}
}

func TestScheduleStore_AddNormalizes(t *testing.T) {
	st := NewScheduleStore()
	require.NoError(t, st.Add(Schedule{StartDay: "Tuesday", StartTime: "09:00", EndDay: "Tuesday", EndTime: "17:30"}))

	got := st.ReadAll()
	require.Len(t, got, 1)
	assert.Equal(t, "9:00 AM", got[0].StartTime)
	assert.Equal(t, "5:30 PM", got[0].EndTime)
}

func TestScheduleStore_AddInfersOvernightEndDay(t *testing.T) {
	st := NewScheduleStore()
	require.NoError(t, st.Add(Schedule{StartDay: "Sunday", StartTime: "10:00 PM", EndTime: "6:00 AM"}))
	assert.Equal(t, "Monday", st.ReadAll()[0].EndDay)
}

func TestScheduleStore_AddRejectsInvalid(t *testing.T) {
	st := NewScheduleStore()
	assert.ErrorIs(t, st.Add(Schedule{StartDay: "Funday", StartTime: "8:00 AM", EndDay: "Monday", EndTime: "5:00 PM"}), ErrInvalidSchedule)
	assert.ErrorIs(t, st.Add(Schedule{StartDay: "Monday", StartTime: "", EndDay: "Monday", EndTime: "5:00 PM"}), ErrInvalidSchedule)
	assert.ErrorIs(t, st.Add(Schedule{StartDay: "Monday", StartTime: "late", EndDay: "Monday", EndTime: "5:00 PM"}), ErrInvalidSchedule)
	assert.Equal(t, 0, st.Len())
}

func TestScheduleStore_UpdateAndRemove(t *testing.T) {
	st := NewScheduleStore()
	require.NoError(t, st.Add(mondayShift()))
	require.NoError(t, st.Add(mondayShift()))

	edited := mondayShift()
	edited.EndTime = "6:00 PM"
	require.NoError(t, st.Update(1, edited))
	assert.Equal(t, "6:00 PM", st.ReadAll()[1].EndTime)
	assert.ErrorIs(t, st.Update(5, edited), ErrIndexOutOfRange)

	require.NoError(t, st.Remove(0))
	assert.Equal(t, []Schedule{edited}, st.ReadAll())
	assert.ErrorIs(t, st.Remove(3), ErrIndexOutOfRange)
}

func TestScheduleStore_ImportJSONReplacesExactly(t *testing.T) {
	st := NewScheduleStore()
	require.NoError(t, st.Add(mondayShift()))

	body := `{"schedules":[{"start_day":"Friday","start_time":"10:00 PM","end_day":"Saturday","end_time":"6:00 AM"}]}`
	require.NoError(t, st.ImportJSON([]byte(body)))
	assert.Equal(t, []Schedule{{StartDay: "Friday", StartTime: "10:00 PM", EndDay: "Saturday", EndTime: "6:00 AM"}}, st.ReadAll())
}

func TestScheduleStore_ImportJSONFailuresLeaveStoreUnchanged(t *testing.T) {
	st := NewScheduleStore()
	require.NoError(t, st.Add(mondayShift()))
	before := st.ReadAll()

	assert.ErrorIs(t, st.ImportJSON([]byte(`{"recordedTimes":[]}`)), ErrParse)
	assert.ErrorIs(t, st.ImportJSON([]byte(`{`)), ErrParse)
	assert.Equal(t, before, st.ReadAll())
}

func TestScheduleStore_ImportJSONKeepsEntriesVerbatim(t *testing.T) {
	st := NewScheduleStore()
	require.NoError(t, st.Add(mondayShift()))

	body := `{"schedules":[
		{"start_day":"monday","start_time":"08:00","end_day":"monday","end_time":"17:00"},
		{"start_day":"Tuesday","start_time":"9:00 AM","end_day":"","end_time":"6:00 PM"}
	]}`
	require.NoError(t, st.ImportJSON([]byte(body)))
	assert.Equal(t, []Schedule{
		{StartDay: "monday", StartTime: "08:00", EndDay: "monday", EndTime: "17:00"},
		{StartDay: "Tuesday", StartTime: "9:00 AM", EndDay: "", EndTime: "6:00 PM"},
	}, st.ReadAll())

	// Form edits still validate.
	assert.ErrorIs(t, st.Update(0, Schedule{StartDay: "monday", StartTime: "08:00", EndDay: "monday", EndTime: "17:00"}), ErrInvalidSchedule)
	assert.Equal(t, "monday", st.ReadAll()[0].StartDay)
}

func TestScheduleStore_ExportJSON(t *testing.T) {
	st := NewScheduleStore()
	_, err := st.ExportJSON()
	assert.ErrorIs(t, err, ErrNoSchedules)

	require.NoError(t, st.Add(mondayShift()))
	data, err := st.ExportJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"schedules":[{"start_day":"Monday","start_time":"8:00 AM","end_day":"Monday","end_time":"5:00 PM"}]}`, string(data))

	other := NewScheduleStore()
	require.NoError(t, other.ImportJSON(data))
	assert.Equal(t, st.ReadAll(), other.ReadAll())
}

func TestNormalizeClock(t *testing.T) {
	tests := map[string]string{
		"14:30":      "2:30 PM",
		"00:15":      "12:15 AM",
		"9:05 AM":    "9:05 AM",
		"09:05 am":   "9:05 AM",
		" 12:00 PM ": "12:00 PM",
	}
	for in, want := range tests {
		got, err := NormalizeClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := NormalizeClock("25:00")
	assert.Error(t, err)
	assert.Equal(t, "soon", DisplayClock("soon"))
}

func TestNextWeekday(t *testing.T) {
	assert.Equal(t, "Tuesday", NextWeekday("Monday"))
	assert.Equal(t, "Monday", NextWeekday("Sunday"))
	assert.Equal(t, "Someday", NextWeekday("Someday"))
}
