package models

type LabeledRecord struct {
	Record            string `json:"record"`
	Label             Label  `json:"label"`
	ValidatedOvertime bool   `json:"validated_overtime,omitempty"`
}

// MergedRecord groups one date's labeled records for review.
type MergedRecord struct {
	Date    string          `json:"date"`
	Day     string          `json:"day"`
	Records []LabeledRecord `json:"records"`
}
