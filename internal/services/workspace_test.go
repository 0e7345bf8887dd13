package services

import (
	"context"
	"errors"
	"testing"

	"dtrplay/internal/classifier"
	"dtrplay/internal/dispatcher"
	"dtrplay/internal/models"
	"dtrplay/internal/review"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = models.Schedule{StartDay: "Monday", StartTime: "08:00", EndDay: "Monday", EndTime: "17:00"}

func TestWorkspace_Logic1EndToEnd(t *testing.T) {
	c := &mockClassifier{ClassifyFn: labelByText}
	ws, _ := newTestWorkspace(c)
	ctx := context.Background()

	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.AddRecord(recOut))
	require.NoError(t, ws.AddSchedule(monday))
	require.NoError(t, ws.SetLogic(ctx, classifier.Logic1, true))

	snap := ws.Snapshot()
	assert.Equal(t, classifier.Logic1, snap.State.Logic)
	rows := snap.State.Response.Rows(snap.Records)
	assert.Equal(t, "#28a745", rows[0].Label.Color())
	assert.Equal(t, "#dc3545", rows[1].Label.Color())

	req := c.last()
	assert.Equal(t, []string{recIn, recOut}, req.Records)
	assert.Equal(t, "8:00 AM", req.Schedules[0].StartTime)
}

func TestWorkspace_DeactivateOnlyActiveLogic(t *testing.T) {
	ws, _ := newTestWorkspace(&mockClassifier{ClassifyFn: labelByText})
	ctx := context.Background()
	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.SetLogic(ctx, classifier.Logic2, true))

	require.NoError(t, ws.SetLogic(ctx, classifier.Logic1, false))
	assert.Equal(t, classifier.Logic2, ws.Snapshot().State.Logic)

	require.NoError(t, ws.SetLogic(ctx, classifier.Logic2, false))
	assert.False(t, ws.Snapshot().State.Active())
}

func TestWorkspace_SetLogicErrors(t *testing.T) {
	c := &mockClassifier{ClassifyFn: func(classifier.Request) (classifier.LabelResponse, error) {
		return nil, &classifier.Error{HTTPStatus: 500, Message: "Server returned 500"}
	}}
	ws, _ := newTestWorkspace(c)
	ctx := context.Background()

	err := ws.SetLogic(ctx, classifier.Logic1, true)
	assert.ErrorIs(t, err, dispatcher.ErrNoRecords)
	assert.Equal(t, "No recorded times to process.", err.Error())

	require.NoError(t, ws.AddRecord(recIn))
	err = ws.SetLogic(ctx, classifier.Logic3, true)
	var remote *classifier.Error
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, "Error: Server returned 500", err.Error())
	assert.False(t, ws.Snapshot().State.Active())
}

func TestWorkspace_ScheduleChangesResetToggles(t *testing.T) {
	ws, notices := newTestWorkspace(&mockClassifier{ClassifyFn: labelByText})
	ctx := context.Background()
	require.NoError(t, ws.AddRecord(recIn))

	activate := func() {
		require.NoError(t, ws.SetLogic(ctx, classifier.Logic1, true))
		require.True(t, ws.Snapshot().State.Active())
	}

	activate()
	require.NoError(t, ws.AddSchedule(monday))
	assert.False(t, ws.Snapshot().State.Active())

	activate()
	require.NoError(t, ws.UpdateSchedule(0, monday))
	assert.True(t, ws.Snapshot().State.Active(), "update keeps the toggles")

	require.NoError(t, ws.ImportSchedules([]byte(`{"schedules":[{"start_day":"Tuesday","start_time":"9:00 AM","end_day":"Tuesday","end_time":"6:00 PM"}]}`)))
	assert.False(t, ws.Snapshot().State.Active())
	assert.Equal(t, "Tuesday", ws.Snapshot().Schedules[0].StartDay)

	activate()
	require.NoError(t, ws.RemoveSchedule(0))
	assert.False(t, ws.Snapshot().State.Active())

	activate()
	ws.ClearSchedules()
	assert.False(t, ws.Snapshot().State.Active())

	assert.Equal(t, []string{NoticeScheduleUpdated, NoticeSchedulesLoaded, NoticeSchedulesClear}, notices.List("ws-1"))
	assert.Equal(t, []string{recIn}, ws.Snapshot().Records, "schedule changes never touch records")
}

func TestWorkspace_ImportSchedulesWithoutKeyKeepsStore(t *testing.T) {
	ws, _ := newTestWorkspace(&mockClassifier{ClassifyFn: labelByText})
	require.NoError(t, ws.AddSchedule(monday))

	err := ws.ImportSchedules([]byte(`{"shifts":[]}`))
	assert.ErrorIs(t, err, models.ErrParse)
	assert.Len(t, ws.Snapshot().Schedules, 1)
}

func TestWorkspace_ImportSchedulesKeepsUnvalidatedEntries(t *testing.T) {
	ws, notices := newTestWorkspace(&mockClassifier{})

	body := `{"schedules":[{"start_day":"monday","start_time":"08:00","end_day":"","end_time":"17:00"}]}`
	require.NoError(t, ws.ImportSchedules([]byte(body)))
	assert.Equal(t, []models.Schedule{{StartDay: "monday", StartTime: "08:00", EndDay: "", EndTime: "17:00"}}, ws.Snapshot().Schedules)
	assert.Equal(t, []string{NoticeSchedulesLoaded}, notices.List("ws-1"))
}

func TestWorkspace_RecordDateTime(t *testing.T) {
	ws, _ := newTestWorkspace(&mockClassifier{})

	require.NoError(t, ws.RecordDateTime("2023-06-05T09:05"))
	assert.Equal(t, []string{"Monday - 05/06/2023 - 9:05 AM"}, ws.Snapshot().Records)

	err := ws.RecordDateTime("")
	assert.ErrorIs(t, err, models.ErrInvalidDateTime)
	assert.Equal(t, "Please select a date and time before recording.", err.Error())

	require.NoError(t, ws.InsertRecordDateTime(0, "2023-06-05 12:00"))
	assert.Equal(t, "Monday - 05/06/2023 - 12:00 PM", ws.Snapshot().Records[1])
}

func TestWorkspace_RecordsExportImport(t *testing.T) {
	ws, _ := newTestWorkspace(&mockClassifier{})
	_, err := ws.ExportRecords()
	assert.ErrorIs(t, err, models.ErrNoRecords)

	require.NoError(t, ws.AddRecord(recIn))
	data, err := ws.ExportRecords()
	require.NoError(t, err)

	ws.ClearRecords()
	assert.Empty(t, ws.Snapshot().Records)
	require.NoError(t, ws.ImportRecords(data))
	assert.Equal(t, []string{recIn}, ws.Snapshot().Records)
}

func TestWorkspace_Upload(t *testing.T) {
	c := &mockClassifier{
		ClassifyFn: labelByText,
		UploadFn: func(filename string, content []byte) (*classifier.UploadResult, error) {
			assert.Equal(t, "dtr.txt", filename)
			return &classifier.UploadResult{
				Records:      []string{recIn, recOut},
				Schedules:    []models.Schedule{{StartDay: "Monday", StartTime: "8:00 AM", EndDay: "Monday", EndTime: "5:00 PM"}},
				HasSchedules: true,
			}, nil
		},
	}
	ws, _ := newTestWorkspace(c)
	require.NoError(t, ws.AddRecord("old"))
	require.NoError(t, ws.SetLogic(context.Background(), classifier.Logic1, true))

	require.NoError(t, ws.UploadRecords(context.Background(), "dtr.txt", []byte("x")))
	snap := ws.Snapshot()
	assert.Equal(t, []string{recIn, recOut}, snap.Records)
	assert.Len(t, snap.Schedules, 1)
	assert.False(t, snap.State.Active())
}

func TestWorkspace_UploadFailure(t *testing.T) {
	c := &mockClassifier{UploadFn: func(string, []byte) (*classifier.UploadResult, error) {
		return nil, classifier.ErrUnavailable
	}}
	ws, _ := newTestWorkspace(c)
	require.NoError(t, ws.AddRecord(recIn))

	err := ws.UploadRecords(context.Background(), "dtr.txt", nil)
	assert.Equal(t, "Error uploading file.", err.Error())
	assert.Equal(t, []string{recIn}, ws.Snapshot().Records)
}

func TestWorkspace_ReviewRoundTrip(t *testing.T) {
	c := &mockClassifier{ClassifyFn: labelByText}
	ws, notices := newTestWorkspace(c)
	ctx := context.Background()

	assert.ErrorIs(t, ws.OpenReview(), review.ErrNoReview)

	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.AddRecord(recOut))
	require.NoError(t, ws.SetLogic(ctx, classifier.Logic3, true))
	require.True(t, ws.Snapshot().State.NeedsReview())

	require.NoError(t, ws.OpenReview())
	modal := ws.Snapshot().Modal
	require.NotNil(t, modal)
	require.Len(t, modal.Groups, 1)
	assert.True(t, modal.HasIssues())

	require.NoError(t, ws.UpdateReviewRow(0, 0, "9:05 AM", models.LabelTimeInLate, false))
	require.NoError(t, ws.UpdateReviewRow(0, 1, "5:00 PM", models.LabelTimeOut, false))
	require.NoError(t, ws.AddReviewRow(0))
	require.NoError(t, ws.UpdateReviewRow(0, 2, "", models.LabelBreakOut, false))

	data, err := ws.ExportEdited()
	require.NoError(t, err)
	var file models.RecordFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, []string{"Monday - 05/06/2023 - 9:05 AM", recOut}, file.RecordedTimes)

	require.NoError(t, ws.SaveReview(ctx))

	snap := ws.Snapshot()
	assert.Nil(t, snap.Modal)
	assert.Equal(t, []string{"Monday - 05/06/2023 - 9:05 AM", recOut}, snap.Records)
	rows := snap.State.Response.Rows(snap.Records)
	assert.Equal(t, models.LabelTimeInLate, rows[0].Label)
	assert.False(t, snap.State.NeedsReview())
	assert.Equal(t, []string{NoticeChangesSaved}, notices.List("ws-1"))

	sent := c.last()
	assert.Equal(t, classifier.Logic3, sent.Logic)
	assert.Len(t, sent.Labeled, 2)
}

func TestWorkspace_SaveReviewFailureKeepsRecords(t *testing.T) {
	calls := 0
	c := &mockClassifier{ClassifyFn: func(req classifier.Request) (classifier.LabelResponse, error) {
		calls++
		if calls > 1 {
			return nil, errors.Join(classifier.ErrUnavailable, errors.New("connection refused"))
		}
		return labelByText(req)
	}}
	ws, _ := newTestWorkspace(c)
	ctx := context.Background()
	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.SetLogic(ctx, classifier.Logic3, true))
	require.NoError(t, ws.OpenReview())
	require.NoError(t, ws.UpdateReviewRow(0, 0, "9:00 AM", models.LabelTimeIn, false))

	err := ws.SaveReview(ctx)
	assert.Equal(t, "Error updating display after save.", err.Error())
	snap := ws.Snapshot()
	assert.Equal(t, []string{recIn}, snap.Records)
	assert.Nil(t, snap.Modal, "the modal closes even when the save fails")
	assert.True(t, snap.State.NeedsReview())

	assert.ErrorIs(t, ws.SaveReview(ctx), review.ErrNoReview)
}

func TestWorkspace_SaveReviewRejected(t *testing.T) {
	calls := 0
	c := &mockClassifier{ClassifyFn: func(req classifier.Request) (classifier.LabelResponse, error) {
		calls++
		if calls > 1 {
			return nil, &classifier.Error{Message: "Invalid labels"}
		}
		return labelByText(req)
	}}
	ws, _ := newTestWorkspace(c)
	ctx := context.Background()
	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.SetLogic(ctx, classifier.Logic3, true))
	require.NoError(t, ws.OpenReview())

	assert.Equal(t, "Invalid labels", ws.SaveReview(ctx).Error())
}

func TestWorkspace_CloseReviewDiscardsEdits(t *testing.T) {
	ws, _ := newTestWorkspace(&mockClassifier{ClassifyFn: labelByText})
	ctx := context.Background()
	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.SetLogic(ctx, classifier.Logic3, true))
	require.NoError(t, ws.OpenReview())
	require.NoError(t, ws.DeleteReviewRow(0, 0))

	ws.CloseReview()
	assert.Nil(t, ws.Snapshot().Modal)
	assert.ErrorIs(t, ws.AddReviewRow(0), review.ErrNoReview)

	require.NoError(t, ws.OpenReview())
	assert.Len(t, ws.Snapshot().Modal.Groups[0].Rows, 1)
}

func TestWorkspace_AlertIsShownOnce(t *testing.T) {
	ws, _ := newTestWorkspace(&mockClassifier{})
	ws.SetAlert("No schedules to save.")

	assert.Equal(t, "No schedules to save.", ws.TakeSnapshot().Alert)
	assert.Empty(t, ws.TakeSnapshot().Alert)
}
