package services

import (
	"context"
	"sync"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/structures"
	"dtrplay/internal/testutil"
)

type mockClassifier struct {
	mu         sync.Mutex
	Requests   []classifier.Request
	ClassifyFn func(classifier.Request) (classifier.LabelResponse, error)
	UploadFn   func(filename string, content []byte) (*classifier.UploadResult, error)
}

func (m *mockClassifier) Classify(_ context.Context, req classifier.Request) (classifier.LabelResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	return m.ClassifyFn(req)
}

func (m *mockClassifier) Upload(_ context.Context, filename string, content []byte) (*classifier.UploadResult, error) {
	return m.UploadFn(filename, content)
}

func (m *mockClassifier) last() classifier.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests[len(m.Requests)-1]
}

const (
	recIn  = "Monday - 05/06/2023 - 8:00 AM"
	recOut = "Monday - 05/06/2023 - 5:00 PM"
)

func labelByText(req classifier.Request) (classifier.LabelResponse, error) {
	if req.Logic == classifier.Logic3 {
		rows := req.Labeled
		if rows == nil {
			for _, r := range req.Records {
				rows = append(rows, models.LabeledRecord{Record: r, Label: models.LabelIn})
			}
		}
		return &classifier.Logic3Response{
			Status:          "success",
			OriginalRecords: rows,
			MergedRecords:   []models.MergedRecord{{Day: "Monday", Date: "05/06/2023", Records: rows}},
			Review:          req.Labeled == nil,
			Issues:          []string{"check Monday"},
		}, nil
	}
	return &classifier.Logic12Response{
		Status: "success",
		LabeledRecords: []models.LabeledRecord{
			{Record: recIn, Label: models.LabelTimeIn},
			{Record: recOut, Label: models.LabelTimeOut},
		},
	}, nil
}

func newTestWorkspace(c *mockClassifier) (*Workspace, *testutil.MockNotices) {
	notices := testutil.NewMockNotices()
	return NewWorkspace("ws-1", c, notices, &testutil.MockLogger{}, testutil.NewMockMetrics()), notices
}

func sessionConfig() *structures.Config {
	conf := &structures.Config{}
	conf.ApplyDefaults()
	return conf
}
