package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"dtrplay/internal/classifier"
	"dtrplay/internal/dispatcher"
	"dtrplay/internal/models"
	"dtrplay/internal/review"
	"dtrplay/internal/services"
)

var errMissingFile = fmt.Errorf("%w: no file selected", models.ErrParse)

var badRequestErrors = []error{
	models.ErrParse,
	models.ErrEmptyRecord,
	models.ErrIndexOutOfRange,
	models.ErrInvalidSchedule,
	models.ErrInvalidDateTime,
	models.ErrNoSchedules,
	models.ErrNoRecords,
	classifier.ErrUnknownLogic,
	dispatcher.ErrNoRecords,
}

func statusFor(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	var remote *classifier.Error
	switch {
	case errors.Is(err, dispatcher.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, review.ErrNoReview):
		return http.StatusNotFound
	case errors.As(err, &remote), errors.Is(err, classifier.ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// messageFor is the text the page shows for err.
func messageFor(err error) string {
	var ae *services.AlertError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func parseIndex(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", models.ErrParse, value)
	}
	return n, nil
}

// readFile returns the multipart "file" field of r.
func readFile(r *http.Request, limit int64) (string, []byte, error) {
	if err := r.ParseMultipartForm(limit); err != nil {
		return "", nil, fmt.Errorf("%w: %s", models.ErrParse, err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errMissingFile
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", models.ErrParse, err)
	}
	return header.Filename, data, nil
}
