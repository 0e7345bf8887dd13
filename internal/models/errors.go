package models

import "errors"

var (
	ErrParse           = errors.New("malformed file")
	ErrEmptyRecord     = errors.New("record is empty")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoSchedules     = errors.New("No schedules to save.")
	ErrNoRecords       = errors.New("No records to save.")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidDateTime = errors.New("Please select a date and time before recording.")
)
