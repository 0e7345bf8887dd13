package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// File names offered for download, matching what the page used to save.
const (
	RecordedTimesFileName = "recorded_times.json"
	EditedRecordsFileName = "edited_schedules.json"
	SchedulesFileName     = "schedules.json"
	fileIndentPrefix      = ""
	fileIndent            = "  "
)

// RecordFile is the recorded_times.json / edited_schedules.json layout.
type RecordFile struct {
	RecordedTimes []string `json:"recordedTimes"`
}

// ScheduleFile is the schedules.json layout.
type ScheduleFile struct {
	Schedules []Schedule `json:"schedules"`
}

func marshalFile(v any) ([]byte, error) {
	return json.MarshalIndent(v, fileIndentPrefix, fileIndent)
}

// EncodeRecordFile renders records as a downloadable file body.
func EncodeRecordFile(records []string) ([]byte, error) {
	if records == nil {
		records = []string{}
	}
	return marshalFile(RecordFile{RecordedTimes: records})
}

// DecodeRecordFile requires a recordedTimes array.
func DecodeRecordFile(data []byte) ([]string, error) {
	var raw struct {
		RecordedTimes *[]string `json:"recordedTimes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.RecordedTimes == nil {
		return nil, fmt.Errorf("%w: JSON file must contain \"recordedTimes\" as a list", ErrParse)
	}
	return *raw.RecordedTimes, nil
}

// DecodeScheduleFile requires a schedules array.
func DecodeScheduleFile(data []byte) ([]Schedule, error) {
	var raw struct {
		Schedules *[]Schedule `json:"schedules"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Schedules == nil {
		return nil, fmt.Errorf("%w: JSON file does not contain schedules", ErrParse)
	}
	return *raw.Schedules, nil
}
