package models

import (
	"fmt"
	"strings"
	"sync"
)

// RecordStore holds TimeRecords in insertion order. Duplicates are allowed
// and no format check is made beyond trimming.
type RecordStore struct {
	mu      sync.RWMutex
	records []string
}

func NewRecordStore() *RecordStore {
	return &RecordStore{records: make([]string, 0)}
}

func cleanRecord(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyRecord
	}
	return text, nil
}

func (s *RecordStore) Append(text string) error {
	text, err := cleanRecord(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, text)
	return nil
}

// InsertAfter places text directly below the record at index.
func (s *RecordStore) InsertAfter(index int, text string) error {
	text, err := cleanRecord(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.records = append(s.records, "")
	copy(s.records[index+2:], s.records[index+1:])
	s.records[index+1] = text
	return nil
}

func (s *RecordStore) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return nil
}

// ReplaceAll swaps the whole sequence; blank entries are dropped.
func (s *RecordStore) ReplaceAll(texts []string) {
	next := make([]string, 0, len(texts))
	for _, t := range texts {
		if t, err := cleanRecord(t); err == nil {
			next = append(next, t)
		}
	}
	s.mu.Lock()
	s.records = next
	s.mu.Unlock()
}

func (s *RecordStore) Clear() {
	s.mu.Lock()
	s.records = make([]string, 0)
	s.mu.Unlock()
}

// ReadAll returns a copy in insertion order.
func (s *RecordStore) ReadAll() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *RecordStore) ExportJSON() ([]byte, error) {
	records := s.ReadAll()
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return EncodeRecordFile(records)
}

// ImportJSON replaces the records from a recorded_times.json body. The
// store is left untouched when the body cannot be used.
func (s *RecordStore) ImportJSON(data []byte) error {
	records, err := DecodeRecordFile(data)
	if err != nil {
		return err
	}
	s.ReplaceAll(records)
	return nil
}
