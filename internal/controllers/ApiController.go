package controllers

import (
	"net/http"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/providers"
	"dtrplay/internal/services"
	"dtrplay/internal/views"

	json "github.com/goccy/go-json"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	maxUploadSize      = 8 << 20
)

type recordRequest struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	DateTime string `json:"datetime"`
}

type indexRequest struct {
	Index int `json:"index"`
}

type scheduleUpdateRequest struct {
	Index    int             `json:"index"`
	Schedule models.Schedule `json:"schedule"`
}

type logicRequest struct {
	Logic  int  `json:"logic"`
	Active bool `json:"active"`
}

type reviewRowRequest struct {
	Group             int          `json:"group"`
	Row               int          `json:"row"`
	Time              string       `json:"time"`
	Label             models.Label `json:"label"`
	ValidatedOvertime bool         `json:"validated_overtime"`
}

type errorResponse struct {
	Error string         `json:"error"`
	View  views.PageView `json:"view"`
}

// ApiController serves the JSON API. Every mutation answers with the
// page view after the change.
type ApiController struct {
	logger   providers.Logger
	sessions *SessionResolver
}

func NewApiController(logger providers.Logger, sessions *SessionResolver) *ApiController {
	return &ApiController{
		logger:   logger,
		sessions: sessions,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func download(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) fail(w http.ResponseWriter, r *http.Request, ws *services.Workspace, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	} else {
		ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: messageFor(err), View: views.Build(ws.Snapshot())})
}

// mutate runs op against the caller's workspace and answers with the
// resulting view.
func (ac *ApiController) mutate(w http.ResponseWriter, r *http.Request, op func(ws *services.Workspace) error) {
	ws := ac.sessions.Workspace(w, r)
	if err := op(ws); err != nil {
		ac.fail(w, r, ws, err)
		return
	}
	writeJSON(w, http.StatusOK, views.Build(ws.Snapshot()))
}

func (ac *ApiController) GetView(w http.ResponseWriter, r *http.Request) {
	ws := ac.sessions.Workspace(w, r)
	writeJSON(w, http.StatusOK, views.Build(ws.Snapshot()))
}

// Records

func (ac *ApiController) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		if req.DateTime != "" {
			return ws.RecordDateTime(req.DateTime)
		}
		return ws.AddRecord(req.Text)
	})
}

func (ac *ApiController) InsertRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		if req.DateTime != "" {
			return ws.InsertRecordDateTime(req.Index, req.DateTime)
		}
		return ws.InsertRecord(req.Index, req.Text)
	})
}

func (ac *ApiController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.RemoveRecord(req.Index)
	})
}

func (ac *ApiController) ClearRecords(w http.ResponseWriter, r *http.Request) {
	ac.mutate(w, r, func(ws *services.Workspace) error {
		ws.ClearRecords()
		return nil
	})
}

func (ac *ApiController) UploadRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	ac.mutate(w, r, func(ws *services.Workspace) error {
		name, data, err := readFile(r, maxUploadSize)
		if err != nil {
			return err
		}
		return ws.UploadRecords(r.Context(), name, data)
	})
}

func (ac *ApiController) ImportRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	ac.mutate(w, r, func(ws *services.Workspace) error {
		_, data, err := readFile(r, maxUploadSize)
		if err != nil {
			return err
		}
		return ws.ImportRecords(data)
	})
}

func (ac *ApiController) ExportRecords(w http.ResponseWriter, r *http.Request) {
	ws := ac.sessions.Workspace(w, r)
	data, err := ws.ExportRecords()
	if err != nil {
		ac.fail(w, r, ws, err)
		return
	}
	download(w, models.RecordedTimesFileName, data)
}

// Schedules

func (ac *ApiController) AddSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.Schedule
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.AddSchedule(req)
	})
}

func (ac *ApiController) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.UpdateSchedule(req.Index, req.Schedule)
	})
}

func (ac *ApiController) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.RemoveSchedule(req.Index)
	})
}

func (ac *ApiController) ClearSchedules(w http.ResponseWriter, r *http.Request) {
	ac.mutate(w, r, func(ws *services.Workspace) error {
		ws.ClearSchedules()
		return nil
	})
}

func (ac *ApiController) ImportSchedules(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	ac.mutate(w, r, func(ws *services.Workspace) error {
		_, data, err := readFile(r, maxUploadSize)
		if err != nil {
			return err
		}
		return ws.ImportSchedules(data)
	})
}

func (ac *ApiController) ExportSchedules(w http.ResponseWriter, r *http.Request) {
	ws := ac.sessions.Workspace(w, r)
	data, err := ws.ExportSchedules()
	if err != nil {
		ac.fail(w, r, ws, err)
		return
	}
	download(w, models.SchedulesFileName, data)
}

// Logic

func (ac *ApiController) SetLogic(w http.ResponseWriter, r *http.Request) {
	var req logicRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		logic, err := classifier.ParseLogic(req.Logic)
		if err != nil {
			return err
		}
		return ws.SetLogic(r.Context(), logic, req.Active)
	})
}

// Review

func (ac *ApiController) OpenReview(w http.ResponseWriter, r *http.Request) {
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.OpenReview()
	})
}

func (ac *ApiController) CloseReview(w http.ResponseWriter, r *http.Request) {
	ac.mutate(w, r, func(ws *services.Workspace) error {
		ws.CloseReview()
		return nil
	})
}

func (ac *ApiController) AddReviewRow(w http.ResponseWriter, r *http.Request) {
	var req reviewRowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.AddReviewRow(req.Group)
	})
}

func (ac *ApiController) DeleteReviewRow(w http.ResponseWriter, r *http.Request) {
	var req reviewRowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.DeleteReviewRow(req.Group, req.Row)
	})
}

func (ac *ApiController) UpdateReviewRow(w http.ResponseWriter, r *http.Request) {
	var req reviewRowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.UpdateReviewRow(req.Group, req.Row, req.Time, req.Label, req.ValidatedOvertime)
	})
}

func (ac *ApiController) SaveReview(w http.ResponseWriter, r *http.Request) {
	ac.mutate(w, r, func(ws *services.Workspace) error {
		return ws.SaveReview(r.Context())
	})
}

func (ac *ApiController) ExportEdited(w http.ResponseWriter, r *http.Request) {
	ws := ac.sessions.Workspace(w, r)
	data, err := ws.ExportEdited()
	if err != nil {
		ac.fail(w, r, ws, err)
		return
	}
	download(w, models.EditedRecordsFileName, data)
}
