package classifier

import (
	"strings"

	"dtrplay/internal/models"

	json "github.com/goccy/go-json"
)

const statusSuccess = "success"

// LabelResponse is the tagged union of the two response shapes the
// backend produces: *Logic12Response or *Logic3Response.
type LabelResponse interface {
	Logic() Logic
	// Rows returns what the record list shows for the given records.
	Rows(records []string) []models.LabeledRecord
	NeedsReview() bool
}

// Logic12Response labels records by their text.
type Logic12Response struct {
	logic          Logic
	Status         string                 `json:"status"`
	LabeledRecords []models.LabeledRecord `json:"labeledRecords"`
	Message        string                 `json:"message,omitempty"`
}

func (r *Logic12Response) Logic() Logic { return r.logic }

func (r *Logic12Response) NeedsReview() bool { return false }

// Rows keeps the caller's order; a record the backend did not label
// is shown without a label.
func (r *Logic12Response) Rows(records []string) []models.LabeledRecord {
	byRecord := make(map[string]models.LabeledRecord, len(r.LabeledRecords))
	for _, lr := range r.LabeledRecords {
		byRecord[lr.Record] = lr
	}
	rows := make([]models.LabeledRecord, 0, len(records))
	for _, rec := range records {
		row := models.LabeledRecord{Record: rec}
		if lr, ok := byRecord[strings.TrimSpace(rec)]; ok {
			row.Label = lr.Label
			row.ValidatedOvertime = lr.ValidatedOvertime
		}
		rows = append(rows, row)
	}
	return rows
}

// Logic3Response replaces the displayed rows and may ask for review.
type Logic3Response struct {
	Status          string                 `json:"status"`
	OriginalRecords []models.LabeledRecord `json:"original_records"`
	MergedRecords   []models.MergedRecord  `json:"merged_records,omitempty"`
	Review          bool                   `json:"needs_review"`
	Issues          []string               `json:"issues"`
	Message         string                 `json:"message,omitempty"`
}

func (r *Logic3Response) Logic() Logic { return Logic3 }

func (r *Logic3Response) NeedsReview() bool { return r.Review }

func (r *Logic3Response) Rows(_ []string) []models.LabeledRecord {
	rows := make([]models.LabeledRecord, len(r.OriginalRecords))
	copy(rows, r.OriginalRecords)
	return rows
}

// OverlayLabels replaces server labels with the user's choice for the
// same record text. The user's selection wins.
func (r *Logic3Response) OverlayLabels(user []models.LabeledRecord) {
	if len(user) == 0 {
		return
	}
	chosen := make(map[string]models.Label, len(user))
	for _, u := range user {
		chosen[u.Record] = u.Label
	}
	for i := range r.OriginalRecords {
		if l, ok := chosen[r.OriginalRecords[i].Record]; ok && l != "" {
			r.OriginalRecords[i].Label = l
		}
	}
}

func decodeResponse(logic Logic, data []byte) (LabelResponse, error) {
	if logic == Logic3 {
		var resp Logic3Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, err
		}
		if resp.Status != statusSuccess {
			return nil, remoteError(0, resp.Message, "Unknown error occurred")
		}
		return &resp, nil
	}

	resp := Logic12Response{logic: logic}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess || resp.LabeledRecords == nil {
		return nil, remoteError(0, resp.Message, "Unknown error occurred")
	}
	return &resp, nil
}

// UploadResult is the backend's reading of an uploaded file.
type UploadResult struct {
	Records       []string
	Schedules     []models.Schedule
	HasSchedules  bool
	UncheckLogics bool
}

type uploadResponse struct {
	Status        string          `json:"status"`
	Content       json.RawMessage `json:"content"`
	Message       string          `json:"message,omitempty"`
	UncheckLogics bool            `json:"uncheck_logics,omitempty"`
}

type uploadContent struct {
	RecordedTimes []string          `json:"recordedTimes"`
	Schedules     []models.Schedule `json:"schedules"`
}

// decodeUploadContent accepts newline-delimited text or the
// {recordedTimes, schedules?} object some backends return.
func decodeUploadContent(raw json.RawMessage) (*UploadResult, error) {
	trimmed := strings.TrimSpace(string(raw))
	result := &UploadResult{}
	switch {
	case trimmed == "" || trimmed == "null":
		return result, nil
	case strings.HasPrefix(trimmed, `"`):
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				result.Records = append(result.Records, line)
			}
		}
		return result, nil
	default:
		var content uploadContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, err
		}
		result.Records = content.RecordedTimes
		result.Schedules = content.Schedules
		result.HasSchedules = content.Schedules != nil
		return result, nil
	}
}
