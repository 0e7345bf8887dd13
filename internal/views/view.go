package views

import (
	"fmt"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/review"
	"dtrplay/internal/services"
)

const (
	EmptyRecordsText = "No time recorded"
	ReviewBannerText = "Marked for Review"
	ReviewActionText = "Review"
)

type RecordRow struct {
	// Index addresses the Record Store; -1 when the row came from the
	// backend and has no store position.
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Label      string `json:"label,omitempty"`
	LabelTitle string `json:"label_title,omitempty"`
	ColorClass string `json:"color_class,omitempty"`
	Color      string `json:"color,omitempty"`
}

func (r RecordRow) Editable() bool { return r.Index >= 0 }

type ScheduleRow struct {
	Index     int    `json:"index"`
	StartDay  string `json:"start_day"`
	StartTime string `json:"start_time"`
	EndDay    string `json:"end_day"`
	EndTime   string `json:"end_time"`
}

type LogicToggle struct {
	Logic  int    `json:"logic"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type Banner struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

type ReviewRow struct {
	Group             int    `json:"group"`
	Row               int    `json:"row"`
	Time              string `json:"time"`
	Label             string `json:"label"`
	ValidatedOvertime bool   `json:"validated_overtime"`
	CanValidate       bool   `json:"can_validate"`
}

type ReviewGroup struct {
	Index  int         `json:"index"`
	Header string      `json:"header"`
	Rows   []ReviewRow `json:"rows"`
}

type ReviewView struct {
	IssuesNotice string              `json:"issues_notice,omitempty"`
	Groups       []ReviewGroup       `json:"groups"`
	LabelGroups  []models.LabelGroup `json:"label_groups"`
}

// PageView is everything the page shows, derived from one snapshot.
type PageView struct {
	Records      []RecordRow   `json:"records"`
	EmptyText    string        `json:"empty_text,omitempty"`
	ReviewBanner *Banner       `json:"review_banner,omitempty"`
	Schedules    []ScheduleRow `json:"schedules"`
	Toggles      []LogicToggle `json:"toggles"`
	ActiveLogic  int           `json:"active_logic"`
	Review       *ReviewView   `json:"review,omitempty"`
	Notices      []string      `json:"notices"`
	Alert        string        `json:"alert,omitempty"`
	Weekdays     []string      `json:"-"`
}

// Build has no side effects; the same snapshot always gives the same view.
func Build(snap services.Snapshot) PageView {
	view := PageView{
		Records:     buildRecords(snap),
		Schedules:   buildSchedules(snap.Schedules),
		ActiveLogic: int(snap.State.Logic),
		Notices:     append([]string{}, snap.Notices...),
		Alert:       snap.Alert,
		Weekdays:    models.Weekdays,
	}
	if len(view.Records) == 0 {
		view.EmptyText = EmptyRecordsText
	}
	if snap.State.NeedsReview() {
		view.ReviewBanner = &Banner{Text: ReviewBannerText, Action: ReviewActionText}
	}
	for _, l := range classifier.Logics {
		view.Toggles = append(view.Toggles, LogicToggle{
			Logic:  int(l),
			Name:   fmt.Sprintf("Logic %d", int(l)),
			Active: snap.State.Logic == l,
		})
	}
	if snap.Modal != nil {
		view.Review = buildReview(snap.Modal)
	}
	return view
}

func buildRecords(snap services.Snapshot) []RecordRow {
	resp := snap.State.Response
	if resp == nil {
		rows := make([]RecordRow, len(snap.Records))
		for i, rec := range snap.Records {
			rows[i] = RecordRow{Index: i, Text: rec}
		}
		return rows
	}

	_, replaced := resp.(*classifier.Logic3Response)
	labeled := resp.Rows(snap.Records)
	rows := make([]RecordRow, len(labeled))
	for i, lr := range labeled {
		row := RecordRow{Index: i, Text: lr.Record}
		if replaced {
			row.Index = -1
		}
		if lr.Label != "" {
			row.Label, row.LabelTitle = models.LabelText(lr.Label, lr.ValidatedOvertime)
			row.ColorClass = lr.Label.ColorClass()
			row.Color = lr.Label.Color()
		}
		rows[i] = row
	}
	return rows
}

func buildSchedules(schedules []models.Schedule) []ScheduleRow {
	rows := make([]ScheduleRow, len(schedules))
	for i, s := range schedules {
		rows[i] = ScheduleRow{
			Index:     i,
			StartDay:  s.StartDay,
			StartTime: models.DisplayClock(s.StartTime),
			EndDay:    s.EndDay,
			EndTime:   models.DisplayClock(s.EndTime),
		}
	}
	return rows
}

func buildReview(m *review.Modal) *ReviewView {
	rv := &ReviewView{LabelGroups: models.ReviewLabelGroups}
	if m.HasIssues() {
		rv.IssuesNotice = review.IssuesNotice
	}
	for gi, g := range m.Groups {
		group := ReviewGroup{Index: gi, Header: g.Header, Rows: make([]ReviewRow, len(g.Rows))}
		for ri, r := range g.Rows {
			group.Rows[ri] = ReviewRow{
				Group:             gi,
				Row:               ri,
				Time:              r.Time,
				Label:             string(r.Label),
				ValidatedOvertime: r.ValidatedOvertime,
				CanValidate:       r.CanValidate,
			}
		}
		rv.Groups = append(rv.Groups, group)
	}
	return rv
}
