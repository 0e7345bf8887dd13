package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/services"
	"dtrplay/internal/structures"
	"dtrplay/internal/testutil"
	"dtrplay/internal/views"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

const (
	recIn  = "Monday - 05/06/2023 - 8:00 AM"
	recOut = "Monday - 05/06/2023 - 5:00 PM"
)

type mockClassifier struct {
	ClassifyFn func(classifier.Request) (classifier.LabelResponse, error)
	UploadFn   func(filename string, content []byte) (*classifier.UploadResult, error)
}

func (m *mockClassifier) Classify(_ context.Context, req classifier.Request) (classifier.LabelResponse, error) {
	return m.ClassifyFn(req)
}

func (m *mockClassifier) Upload(_ context.Context, filename string, content []byte) (*classifier.UploadResult, error) {
	return m.UploadFn(filename, content)
}

// labelInOut labels the first record Time In and every other one Time Out.
func labelInOut(req classifier.Request) (classifier.LabelResponse, error) {
	if req.Logic == classifier.Logic3 {
		rows := req.Labeled
		if rows == nil {
			for _, r := range req.Records {
				rows = append(rows, models.LabeledRecord{Record: r, Label: models.LabelTimeIn})
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
	resp := &classifier.Logic12Response{Status: "success"}
	for i, r := range req.Records {
		label := models.LabelTimeOut
		if i == 0 {
			label = models.LabelTimeIn
		}
		resp.LabeledRecords = append(resp.LabeledRecords, models.LabeledRecord{Record: r, Label: label})
	}
	return resp, nil
}

type harness struct {
	t        *testing.T
	api      *ApiController
	ui       *UiController
	sessions services.SessionServiceInterface
	cookie   *http.Cookie
	logger   *testutil.MockLogger
}

func newHarness(t *testing.T, c *mockClassifier) *harness {
	t.Helper()
	conf := &structures.Config{}
	conf.ApplyDefaults()

	logger := &testutil.MockLogger{}
	sessions := services.NewSessionService(conf, testutil.NewMockColdStorage(), c, testutil.NewMockNotices(), logger, testutil.NewMockMetrics())
	resolver := NewSessionResolver(conf, sessions)
	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	return &harness{
		t:        t,
		api:      NewApiController(logger, resolver),
		ui:       NewUiController(logger, resolver, renderer),
		sessions: sessions,
		logger:   logger,
	}
}

// serve runs h and keeps the session cookie for the next request.
func (h *harness) serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.Name == structures.DefaultCookieName {
			h.cookie = c
		}
	}
	return rr
}

func (h *harness) postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	return h.serve(handler, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body)))
}

func (h *harness) postForm(handler http.HandlerFunc, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ui", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.serve(handler, req)
}

func (h *harness) postFile(handler http.HandlerFunc, filename string, content []byte) *httptest.ResponseRecorder {
	h.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(h.t, err)
	_, err = part.Write(content)
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.serve(handler, req)
}

func (h *harness) workspace() *services.Workspace {
	h.t.Helper()
	require.NotNil(h.t, h.cookie)
	ws, ok := h.sessions.Get(h.cookie.Value)
	require.True(h.t, ok)
	return ws
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) views.PageView {
	t.Helper()
	var view views.PageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	return view
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
