package models

type Label string

const (
	LabelTimeIn        Label = "Time In"
	LabelTimeInEarly   Label = "Time In (Early)"
	LabelTimeInLate    Label = "Time In (Late)"
	LabelTimeOut       Label = "Time Out"
	LabelTimeOutOT     Label = "Time Out (Overtime)"
	LabelBreakOut      Label = "Break Out"
	LabelBreakIn       Label = "Break In"
	LabelIn            Label = "IN"
	LabelOut           Label = "OUT"
	LabelOvertimeStart Label = "Overtime Start"
	LabelOvertimeEnd   Label = "Overtime End"
)

const (
	validatedMark          = " ✓"
	validatedTitle         = "Validated Overtime"
	unknownLabelColorClass = "label-unknown"
)

type Category string

const (
	CategoryTimeIn  Category = "time-in"
	CategoryTimeOut Category = "time-out"
	CategoryBreak   Category = "break"
	CategoryOther   Category = "other"
)

type labelStyle struct {
	category Category
	class    string
	color    string
}

var labelStyles = map[Label]labelStyle{
	LabelTimeIn:        {CategoryTimeIn, "label-time-in", "#28a745"},
	LabelTimeInEarly:   {CategoryTimeIn, "label-time-in", "#28a745"},
	LabelIn:            {CategoryTimeIn, "label-time-in", "#28a745"},
	LabelTimeInLate:    {CategoryTimeIn, "label-time-in-late", "#ffc107"},
	LabelTimeOut:       {CategoryTimeOut, "label-time-out", "#dc3545"},
	LabelTimeOutOT:     {CategoryTimeOut, "label-time-out", "#dc3545"},
	LabelOut:           {CategoryTimeOut, "label-time-out", "#dc3545"},
	LabelBreakOut:      {CategoryBreak, "label-break-out", "#fd7e14"},
	LabelBreakIn:       {CategoryBreak, "label-break-in", "#007bff"},
	LabelOvertimeStart: {CategoryOther, "label-overtime-start", "#9C27B0"},
	LabelOvertimeEnd:   {CategoryOther, "label-overtime-end", "#795548"},
}

func (l Label) Category() Category {
	if s, ok := labelStyles[l]; ok {
		return s.category
	}
	return CategoryOther
}

// Color is the label's hex colour, empty for labels the page does not know.
func (l Label) Color() string {
	return labelStyles[l].color
}

func (l Label) ColorClass() string {
	if s, ok := labelStyles[l]; ok {
		return s.class
	}
	return unknownLabelColorClass
}

// CanValidateOvertime reports whether a validated flag is shown for l.
func (l Label) CanValidateOvertime() bool {
	return l == LabelTimeOut || l == LabelTimeOutOT
}

type LabelGroup struct {
	Name   string  `json:"name"`
	Labels []Label `json:"labels"`
}

// ReviewLabelGroups is the manual relabel dropdown, grouped by category.
var ReviewLabelGroups = []LabelGroup{
	{Name: "Time In Options", Labels: []Label{LabelTimeIn, LabelTimeInEarly, LabelTimeInLate}},
	{Name: "Time Out Options", Labels: []Label{LabelTimeOut, LabelTimeOutOT}},
	{Name: "Break Options", Labels: []Label{LabelBreakOut, LabelBreakIn}},
}

// LabelText is what the page shows for a labeled record.
func LabelText(l Label, validatedOvertime bool) (text, title string) {
	if validatedOvertime && l.CanValidateOvertime() {
		return string(l) + validatedMark, validatedTitle
	}
	return string(l), ""
}
