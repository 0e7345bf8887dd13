package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dtrplay/internal/classifier"
	"dtrplay/internal/dispatcher"
	"dtrplay/internal/models"
	"dtrplay/internal/providers"
	"dtrplay/internal/services"
	"dtrplay/internal/views"
)

// UiController serves the HTML page. Form posts change the workspace and
// redirect back to the page; a failure becomes the page alert.
type UiController struct {
	logger   providers.Logger
	sessions *SessionResolver
	renderer *views.Renderer
}

func NewUiController(logger providers.Logger, sessions *SessionResolver, renderer *views.Renderer) *UiController {
	return &UiController{
		logger:   logger,
		sessions: sessions,
		renderer: renderer,
	}
}

func (uc *UiController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ws := uc.sessions.Workspace(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uc.renderer.Render(w, views.Build(ws.TakeSnapshot())); err != nil {
		uc.logger.Errorf(providers.TypeGet, "render: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (uc *UiController) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(views.Stylesheet())
}

// submit runs op and redirects to the page. A superseded toggle is not an
// error the user needs to see: a newer one is already in flight.
func (uc *UiController) submit(w http.ResponseWriter, r *http.Request, op func(ws *services.Workspace) error) {
	ws := uc.sessions.Workspace(w, r)
	if err := op(ws); err != nil && !errors.Is(err, dispatcher.ErrSuperseded) {
		uc.logger.Debugf(providers.TypePost, "%s: %s", r.URL.Path, err)
		ws.SetAlert(messageFor(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func formIndex(r *http.Request, key string) (int, error) {
	return parseIndex(r.PostFormValue(key))
}

// Records

func (uc *UiController) AddRecord(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		if text := r.PostFormValue("text"); text != "" {
			return ws.AddRecord(text)
		}
		return ws.RecordDateTime(r.PostFormValue("datetime"))
	})
}

func (uc *UiController) InsertRecord(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		index, err := formIndex(r, "index")
		if err != nil {
			return err
		}
		if text := r.PostFormValue("text"); text != "" {
			return ws.InsertRecord(index, text)
		}
		return ws.InsertRecordDateTime(index, r.PostFormValue("datetime"))
	})
}

func (uc *UiController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		index, err := formIndex(r, "index")
		if err != nil {
			return err
		}
		return ws.RemoveRecord(index)
	})
}

func (uc *UiController) ClearRecords(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		ws.ClearRecords()
		return nil
	})
}

func (uc *UiController) UploadRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	uc.submit(w, r, func(ws *services.Workspace) error {
		name, data, err := readFile(r, maxUploadSize)
		if err != nil {
			return err
		}
		return ws.UploadRecords(r.Context(), name, data)
	})
}

func (uc *UiController) ImportRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	uc.submit(w, r, func(ws *services.Workspace) error {
		_, data, err := readFile(r, maxUploadSize)
		if err != nil {
			return err
		}
		return ws.ImportRecords(data)
	})
}

// Schedules

func formSchedule(r *http.Request) models.Schedule {
	return models.Schedule{
		StartDay:  r.PostFormValue("start_day"),
		StartTime: r.PostFormValue("start_time"),
		EndDay:    r.PostFormValue("end_day"),
		EndTime:   r.PostFormValue("end_time"),
	}
}

func (uc *UiController) AddSchedule(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		return ws.AddSchedule(formSchedule(r))
	})
}

func (uc *UiController) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		index, err := formIndex(r, "index")
		if err != nil {
			return err
		}
		return ws.UpdateSchedule(index, formSchedule(r))
	})
}

func (uc *UiController) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		index, err := formIndex(r, "index")
		if err != nil {
			return err
		}
		return ws.RemoveSchedule(index)
	})
}

func (uc *UiController) ClearSchedules(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		ws.ClearSchedules()
		return nil
	})
}

func (uc *UiController) ImportSchedules(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	uc.submit(w, r, func(ws *services.Workspace) error {
		_, data, err := readFile(r, maxUploadSize)
		if err != nil {
			return err
		}
		return ws.ImportSchedules(data)
	})
}

// Logic

func (uc *UiController) SetLogic(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		n, err := formIndex(r, "logic")
		if err != nil {
			return err
		}
		logic, err := classifier.ParseLogic(n)
		if err != nil {
			return err
		}
		return ws.SetLogic(r.Context(), logic, r.PostFormValue("active") == "true")
	})
}

// Review

// rowKey parses the "group-row" key that names a review row's fields in
// the modal form.
func rowKey(key string) (int, int, error) {
	g, r, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: review row %q", models.ErrParse, key)
	}
	group, err := parseIndex(g)
	if err != nil {
		return 0, 0, err
	}
	row, err := parseIndex(r)
	if err != nil {
		return 0, 0, err
	}
	return group, row, nil
}

// applyReviewRows copies every row posted by the modal form into the open
// review. The modal is one form, so each button carries all pending edits.
func applyReviewRows(r *http.Request, ws *services.Workspace) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %s", models.ErrParse, err)
	}
	for _, key := range r.PostForm["rows"] {
		group, row, err := rowKey(key)
		if err != nil {
			return err
		}
		label := models.Label(r.PostForm.Get("label-" + key))
		validated := r.PostForm.Get("validated-"+key) == "true"
		if err := ws.UpdateReviewRow(group, row, r.PostForm.Get("time-"+key), label, validated); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UiController) OpenReview(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		return ws.OpenReview()
	})
}

func (uc *UiController) CloseReview(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		ws.CloseReview()
		return nil
	})
}

func (uc *UiController) AddReviewRow(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		if err := applyReviewRows(r, ws); err != nil {
			return err
		}
		group, err := formIndex(r, "group")
		if err != nil {
			return err
		}
		return ws.AddReviewRow(group)
	})
}

// DeleteReviewRow removes the row named by "remove", or by the "group"
// and "row" fields when a single row is posted.
func (uc *UiController) DeleteReviewRow(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		if err := applyReviewRows(r, ws); err != nil {
			return err
		}
		if key := r.PostFormValue("remove"); key != "" {
			group, row, err := rowKey(key)
			if err != nil {
				return err
			}
			return ws.DeleteReviewRow(group, row)
		}
		group, err := formIndex(r, "group")
		if err != nil {
			return err
		}
		row, err := formIndex(r, "row")
		if err != nil {
			return err
		}
		return ws.DeleteReviewRow(group, row)
	})
}

func (uc *UiController) UpdateReviewRow(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		if err := applyReviewRows(r, ws); err != nil {
			return err
		}
		if r.PostFormValue("group") == "" {
			return nil
		}
		group, err := formIndex(r, "group")
		if err != nil {
			return err
		}
		row, err := formIndex(r, "row")
		if err != nil {
			return err
		}
		label := models.Label(r.PostFormValue("label"))
		return ws.UpdateReviewRow(group, row, r.PostFormValue("time"), label, r.PostFormValue("validated") == "true")
	})
}

// SaveReview applies the posted rows and then submits the modal.
func (uc *UiController) SaveReview(w http.ResponseWriter, r *http.Request) {
	uc.submit(w, r, func(ws *services.Workspace) error {
		if err := applyReviewRows(r, ws); err != nil {
			return err
		}
		return ws.SaveReview(r.Context())
	})
}
