package review

import (
	"errors"
	"fmt"
	"strings"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
)

const (
	IssuesNotice  = "Issues found. Please review Schedule."
	headerSep     = ", "
	overtimeToken = "Overtime"
)

var ErrNoReview = errors.New("no review is open")

// Row is one editable time in a review group.
type Row struct {
	Time              string       `json:"time"`
	Label             models.Label `json:"label"`
	ValidatedOvertime bool         `json:"validated_overtime"`
	// CanValidate is fixed when the row is built and does not follow
	// later label edits.
	CanValidate bool `json:"can_validate"`
}

// Group holds the rows of one date. Header is "<day>, <date>".
type Group struct {
	Header string `json:"header"`
	Rows   []Row  `json:"rows"`
}

type Modal struct {
	Groups []Group  `json:"groups"`
	Issues []string `json:"issues"`
}

func (m *Modal) HasIssues() bool {
	return len(m.Issues) > 0
}

// selectable maps labels the dropdown does not offer to its first option.
func selectable(l models.Label) models.Label {
	for _, g := range models.ReviewLabelGroups {
		for _, option := range g.Labels {
			if option == l {
				return l
			}
		}
	}
	return models.ReviewLabelGroups[0].Labels[0]
}

func showsValidate(lr models.LabeledRecord) bool {
	return lr.Label == models.LabelTimeOutOT ||
		(lr.Label == models.LabelTimeOut && strings.Contains(lr.Record, overtimeToken))
}

// BuildModal opens an edit copy of the merged records of resp.
func BuildModal(resp *classifier.Logic3Response) *Modal {
	m := &Modal{
		Groups: make([]Group, 0, len(resp.MergedRecords)),
		Issues: append([]string(nil), resp.Issues...),
	}
	for _, merged := range resp.MergedRecords {
		g := Group{Header: merged.Day + headerSep + merged.Date, Rows: make([]Row, 0, len(merged.Records))}
		for _, lr := range merged.Records {
			row := Row{Label: selectable(lr.Label), CanValidate: showsValidate(lr)}
			if _, _, clock, ok := models.SplitRecord(lr.Record); ok {
				row.Time = clock
			}
			if row.CanValidate {
				row.ValidatedOvertime = lr.ValidatedOvertime
			}
			g.Rows = append(g.Rows, row)
		}
		m.Groups = append(m.Groups, g)
	}
	return m
}

func (m *Modal) group(gi int) (*Group, error) {
	if gi < 0 || gi >= len(m.Groups) {
		return nil, fmt.Errorf("%w: group %d", models.ErrIndexOutOfRange, gi)
	}
	return &m.Groups[gi], nil
}

// AddRow appends a blank row to group gi.
func (m *Modal) AddRow(gi int) error {
	g, err := m.group(gi)
	if err != nil {
		return err
	}
	g.Rows = append(g.Rows, Row{Label: selectable("")})
	return nil
}

func (m *Modal) DeleteRow(gi, ri int) error {
	g, err := m.group(gi)
	if err != nil {
		return err
	}
	if ri < 0 || ri >= len(g.Rows) {
		return fmt.Errorf("%w: row %d", models.ErrIndexOutOfRange, ri)
	}
	g.Rows = append(g.Rows[:ri], g.Rows[ri+1:]...)
	return nil
}

// UpdateRow stores the edited time, label and overtime flag. The flag is
// ignored on rows that do not show the checkbox.
func (m *Modal) UpdateRow(gi, ri int, clock string, label models.Label, validated bool) error {
	g, err := m.group(gi)
	if err != nil {
		return err
	}
	if ri < 0 || ri >= len(g.Rows) {
		return fmt.Errorf("%w: row %d", models.ErrIndexOutOfRange, ri)
	}
	row := &g.Rows[ri]
	row.Time = strings.TrimSpace(clock)
	row.Label = selectable(label)
	row.ValidatedOvertime = row.CanValidate && validated
	return nil
}

// Reconstruct turns the modal back into labeled records. Rows with an
// empty time, a malformed header or a result that is not a canonical
// TimeRecord are dropped.
func Reconstruct(m *Modal) []models.LabeledRecord {
	out := make([]models.LabeledRecord, 0)
	for _, g := range m.Groups {
		parts := strings.Split(g.Header, headerSep)
		if len(parts) != 2 {
			continue
		}
		day, date := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		for _, row := range g.Rows {
			clock := strings.TrimSpace(row.Time)
			if clock == "" {
				continue
			}
			record := models.JoinRecord(day, date, clock)
			if !models.ValidRecord(record) {
				continue
			}
			out = append(out, models.LabeledRecord{
				Record:            record,
				Label:             row.Label,
				ValidatedOvertime: row.ValidatedOvertime,
			})
		}
	}
	return out
}

// Records is the record text of Reconstruct, in order.
func Records(labeled []models.LabeledRecord) []string {
	records := make([]string, len(labeled))
	for i, lr := range labeled {
		records[i] = lr.Record
	}
	return records
}

// ExportEdited renders the reconstructed rows as edited_schedules.json.
func ExportEdited(m *Modal) ([]byte, error) {
	records := Records(Reconstruct(m))
	if len(records) == 0 {
		return nil, models.ErrNoRecords
	}
	return models.EncodeRecordFile(records)
}

func (m *Modal) Clone() *Modal {
	c := &Modal{Groups: make([]Group, len(m.Groups)), Issues: append([]string(nil), m.Issues...)}
	for i, g := range m.Groups {
		c.Groups[i] = Group{Header: g.Header, Rows: append([]Row(nil), g.Rows...)}
	}
	return c
}
