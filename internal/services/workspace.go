package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"dtrplay/internal/classifier"
	"dtrplay/internal/dispatcher"
	"dtrplay/internal/models"
	"dtrplay/internal/providers"
	"dtrplay/internal/review"
)

const (
	NoticeChangesSaved    = "Changes Saved Successfully!"
	NoticeScheduleUpdated = "Schedule updated successfully."
	NoticeSchedulesLoaded = "Schedules loaded successfully."
	NoticeSchedulesClear  = "Schedules cleared."

	saveFailedMessage   = "Error updating display after save."
	saveRejectedMessage = "Error processing records"
	uploadFailedMessage = "Error uploading file."
)

// Snapshot is a consistent read-only copy of a workspace for rendering.
type Snapshot struct {
	Records   []string
	Schedules []models.Schedule
	State     dispatcher.State
	Modal     *review.Modal
	Notices   []string
	Alert     string
}

// Workspace is one browser's playground: its records, schedules, the
// active logic and the open review.
type Workspace struct {
	id         string
	records    *models.RecordStore
	schedules  *models.ScheduleStore
	dispatcher *dispatcher.Dispatcher

	mu       sync.Mutex
	modal    *review.Modal
	alert    string
	lastSeen time.Time
	inflight atomic.Int32

	client  classifier.ClassifierInterface
	notices providers.NoticeProviderInterface
	logger  providers.Logger
}

func NewWorkspace(id string, client classifier.ClassifierInterface, notices providers.NoticeProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Workspace {
	return &Workspace{
		id:         id,
		records:    models.NewRecordStore(),
		schedules:  models.NewScheduleStore(),
		dispatcher: dispatcher.NewDispatcher(client, logger, metrics),
		lastSeen:   time.Now(),
		client:     client,
		notices:    notices,
		logger:     logger,
	}
}

func (w *Workspace) ID() string { return w.id }

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// enter marks an operation in flight until the returned func runs. Both
// ends refresh the idle clock, so a long backend call never looks idle.
func (w *Workspace) enter() func() {
	w.inflight.Add(1)
	w.touch(time.Now())
	return func() {
		w.touch(time.Now())
		w.inflight.Add(-1)
	}
}

// Idle reports whether nothing runs against w and it was last used more
// than ttl before now.
func (w *Workspace) Idle(now time.Time, ttl time.Duration) bool {
	return w.inflight.Load() == 0 && now.Sub(w.LastSeen()) > ttl
}

// reset drops labels, banner and review after the inputs changed.
func (w *Workspace) reset() {
	w.dispatcher.Reset()
	w.mu.Lock()
	w.modal = nil
	w.mu.Unlock()
}

func (w *Workspace) notify(message string) {
	w.notices.Push(w.id, message)
}

// SetAlert stores a message shown once by the next page render.
func (w *Workspace) SetAlert(message string) {
	w.mu.Lock()
	w.alert = message
	w.mu.Unlock()
}

func (w *Workspace) Snapshot() Snapshot {
	snap := Snapshot{
		Records:   w.records.ReadAll(),
		Schedules: w.schedules.ReadAll(),
		State:     w.dispatcher.State(),
		Notices:   w.notices.List(w.id),
	}
	w.mu.Lock()
	if w.modal != nil {
		snap.Modal = w.modal.Clone()
	}
	snap.Alert = w.alert
	w.mu.Unlock()
	return snap
}

// TakeSnapshot is Snapshot that also consumes the pending alert.
func (w *Workspace) TakeSnapshot() Snapshot {
	snap := w.Snapshot()
	w.mu.Lock()
	w.alert = ""
	w.mu.Unlock()
	return snap
}

// Records

func (w *Workspace) AddRecord(text string) error {
	defer w.enter()()
	if err := w.records.Append(text); err != nil {
		return err
	}
	w.reset()
	return nil
}

// RecordDateTime appends the TimeRecord for a datetime input value.
func (w *Workspace) RecordDateTime(value string) error {
	defer w.enter()()
	t, err := models.ParseDateTimeInput(value)
	if err != nil {
		return alert(models.ErrInvalidDateTime.Error(), err)
	}
	return w.AddRecord(models.FormatTimeRecord(t))
}

func (w *Workspace) InsertRecord(index int, text string) error {
	defer w.enter()()
	if err := w.records.InsertAfter(index, text); err != nil {
		return err
	}
	w.reset()
	return nil
}

func (w *Workspace) InsertRecordDateTime(index int, value string) error {
	defer w.enter()()
	t, err := models.ParseDateTimeInput(value)
	if err != nil {
		return alert(models.ErrInvalidDateTime.Error(), err)
	}
	return w.InsertRecord(index, models.FormatTimeRecord(t))
}

func (w *Workspace) RemoveRecord(index int) error {
	defer w.enter()()
	if err := w.records.Remove(index); err != nil {
		return err
	}
	w.reset()
	return nil
}

func (w *Workspace) ClearRecords() {
	defer w.enter()()
	w.records.Clear()
	w.reset()
}

func (w *Workspace) ImportRecords(data []byte) error {
	defer w.enter()()
	if err := w.records.ImportJSON(data); err != nil {
		return err
	}
	w.reset()
	return nil
}

func (w *Workspace) ExportRecords() ([]byte, error) {
	return w.records.ExportJSON()
}

// UploadRecords lets the backend read an uploaded file and replaces the
// records with what it found. Schedules in the reply replace the
// Schedule Store.
func (w *Workspace) UploadRecords(ctx context.Context, filename string, content []byte) error {
	defer w.enter()()
	res, err := w.client.Upload(ctx, filename, content)
	if err != nil {
		return alert(remoteMessage(err, uploadFailedMessage, uploadFailedMessage), err)
	}
	if res.HasSchedules {
		w.schedules.Replace(res.Schedules)
	}
	w.records.ReplaceAll(res.Records)
	w.reset()
	if res.UncheckLogics {
		w.logger.Debugf(providers.TypeApp, "workspace %s: upload reset the logic toggles", w.id)
	}
	return nil
}

// Schedules

func (w *Workspace) AddSchedule(s models.Schedule) error {
	defer w.enter()()
	if err := w.schedules.Add(s); err != nil {
		return err
	}
	w.reset()
	return nil
}

// UpdateSchedule keeps the active logic as it is.
func (w *Workspace) UpdateSchedule(index int, s models.Schedule) error {
	defer w.enter()()
	if err := w.schedules.Update(index, s); err != nil {
		return err
	}
	w.notify(NoticeScheduleUpdated)
	return nil
}

func (w *Workspace) RemoveSchedule(index int) error {
	defer w.enter()()
	if err := w.schedules.Remove(index); err != nil {
		return err
	}
	w.reset()
	return nil
}

func (w *Workspace) ClearSchedules() {
	defer w.enter()()
	w.schedules.Clear()
	w.reset()
	w.notify(NoticeSchedulesClear)
}

func (w *Workspace) ImportSchedules(data []byte) error {
	defer w.enter()()
	if err := w.schedules.ImportJSON(data); err != nil {
		return err
	}
	w.reset()
	w.notify(NoticeSchedulesLoaded)
	return nil
}

func (w *Workspace) ExportSchedules() ([]byte, error) {
	return w.schedules.ExportJSON()
}

// Logic toggles

// SetLogic turns a logic toggle on or off. Turning on one logic turns
// the others off; turning off a logic that is not active does nothing.
func (w *Workspace) SetLogic(ctx context.Context, logic classifier.Logic, active bool) error {
	defer w.enter()()
	if !active {
		if w.dispatcher.State().Logic == logic {
			w.reset()
		}
		return nil
	}

	w.mu.Lock()
	w.modal = nil
	w.mu.Unlock()

	_, err := w.dispatcher.Activate(ctx, logic, w.records.ReadAll(), w.schedules.ReadAll())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dispatcher.ErrSuperseded):
		return err
	default:
		w.logger.Warnf(providers.TypeClassifier, "workspace %s: %s failed: %s", w.id, logic, err)
		return alert(dispatcher.AlertMessage(logic, err), err)
	}
}

// Review

func (w *Workspace) OpenReview() error {
	defer w.enter()()
	resp, ok := w.dispatcher.State().Review()
	if !ok {
		return review.ErrNoReview
	}
	w.mu.Lock()
	w.modal = review.BuildModal(resp)
	w.mu.Unlock()
	return nil
}

// CloseReview discards every edit made in the modal.
func (w *Workspace) CloseReview() {
	defer w.enter()()
	w.mu.Lock()
	w.modal = nil
	w.mu.Unlock()
}

func (w *Workspace) editModal(edit func(m *review.Modal) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.modal == nil {
		return review.ErrNoReview
	}
	return edit(w.modal)
}

func (w *Workspace) AddReviewRow(group int) error {
	defer w.enter()()
	return w.editModal(func(m *review.Modal) error { return m.AddRow(group) })
}

func (w *Workspace) DeleteReviewRow(group, row int) error {
	defer w.enter()()
	return w.editModal(func(m *review.Modal) error { return m.DeleteRow(group, row) })
}

func (w *Workspace) UpdateReviewRow(group, row int, clock string, label models.Label, validated bool) error {
	defer w.enter()()
	return w.editModal(func(m *review.Modal) error { return m.UpdateRow(group, row, clock, label, validated) })
}

func (w *Workspace) ExportEdited() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.modal == nil {
		return nil, review.ErrNoReview
	}
	return review.ExportEdited(w.modal)
}

// SaveReview closes the modal and sends the edited rows back to logic3.
// On success the records become the reconstructed ones and the labels
// are the server's, overridden by the user's choices.
func (w *Workspace) SaveReview(ctx context.Context) error {
	defer w.enter()()
	w.mu.Lock()
	modal := w.modal
	w.modal = nil
	w.mu.Unlock()
	if modal == nil {
		return review.ErrNoReview
	}

	labeled := review.Reconstruct(modal)
	records := review.Records(labeled)
	_, err := w.dispatcher.Resubmit(ctx, labeled, w.schedules.ReadAll(), func(*classifier.Logic3Response) {
		w.records.ReplaceAll(records)
	})
	if err != nil {
		if errors.Is(err, dispatcher.ErrSuperseded) {
			return err
		}
		w.logger.Warnf(providers.TypeClassifier, "workspace %s: review save failed: %s", w.id, err)
		return alert(remoteMessage(err, saveRejectedMessage, saveFailedMessage), err)
	}
	w.notify(NoticeChangesSaved)
	return nil
}

// Persistence

func (w *Workspace) Export() *models.WorkspaceSnapshot {
	return &models.WorkspaceSnapshot{
		Records:   w.records.ReadAll(),
		Schedules: w.schedules.ReadAll(),
		LastSeen:  w.LastSeen(),
	}
}

func (w *Workspace) restore(snap *models.WorkspaceSnapshot) {
	w.schedules.Replace(snap.Schedules)
	w.records.ReplaceAll(snap.Records)
	if !snap.LastSeen.IsZero() {
		w.touch(snap.LastSeen)
	}
}
