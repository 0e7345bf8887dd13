package models

import (
	"fmt"
	"sync"
)

// ScheduleStore is the ordered list of expected work windows.
type ScheduleStore struct {
	mu        sync.RWMutex
	schedules []Schedule
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{schedules: make([]Schedule, 0)}
}

func prepareSchedule(s Schedule) (Schedule, error) {
	s, err := s.Normalize()
	if err != nil {
		return Schedule{}, err
	}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func (st *ScheduleStore) Add(s Schedule) error {
	s, err := prepareSchedule(s)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.schedules = append(st.schedules, s)
	return nil
}

func (st *ScheduleStore) Update(index int, s Schedule) error {
	s, err := prepareSchedule(s)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if index < 0 || index >= len(st.schedules) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	st.schedules[index] = s
	return nil
}

func (st *ScheduleStore) Remove(index int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if index < 0 || index >= len(st.schedules) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	st.schedules = append(st.schedules[:index], st.schedules[index+1:]...)
	return nil
}

func (st *ScheduleStore) Clear() {
	st.mu.Lock()
	st.schedules = make([]Schedule, 0)
	st.mu.Unlock()
}

func (st *ScheduleStore) ReadAll() []Schedule {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]Schedule, len(st.schedules))
	copy(out, st.schedules)
	return out
}

func (st *ScheduleStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.schedules)
}

// Replace swaps in schedules verbatim. Entries are not validated: imports
// and backend replies keep whatever days and times they carry.
func (st *ScheduleStore) Replace(schedules []Schedule) {
	next := make([]Schedule, len(schedules))
	copy(next, schedules)
	st.mu.Lock()
	st.schedules = next
	st.mu.Unlock()
}

// ImportJSON replaces the list from a schedules.json body. Entries are
// kept exactly as written; a malformed body or a missing "schedules"
// array leaves the store unchanged.
func (st *ScheduleStore) ImportJSON(data []byte) error {
	schedules, err := DecodeScheduleFile(data)
	if err != nil {
		return err
	}
	st.Replace(schedules)
	return nil
}

func (st *ScheduleStore) ExportJSON() ([]byte, error) {
	schedules := st.ReadAll()
	if len(schedules) == 0 {
		return nil, ErrNoSchedules
	}
	return marshalFile(ScheduleFile{Schedules: schedules})
}
