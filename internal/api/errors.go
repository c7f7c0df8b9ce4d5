package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/ingest"
	"github.com/smartsite-ai/sitectl/internal/progress"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`

	// Schema errors
	Missing []string `json:"missing,omitempty"`

	// Field errors
	Row    int    `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	writeErrorResponse(w, r, status, ErrorResponse{Error: msg, Kind: kind})
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	resp.RequestID = RequestID(r.Context())
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// writeBuildError maps report build failures to status codes.
func writeBuildError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		schemaErr    *dataset.SchemaError
		fieldErr     *dataset.FieldError
		malformedErr *ingest.MalformedFileError
	)

	switch {
	case errors.As(err, &schemaErr):
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   err.Error(),
			Kind:    "schema",
			Missing: schemaErr.Missing,
		})
	case errors.As(err, &fieldErr):
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  err.Error(),
			Kind:   "field",
			Row:    fieldErr.Row,
			Column: fieldErr.Column,
		})
	case errors.As(err, &malformedErr):
		writeError(w, r, http.StatusBadRequest, "malformed", err.Error())
	case errors.Is(err, progress.ErrInvalidThreshold), errors.Is(err, progress.ErrInvalidSchedule):
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusRequestTimeout, "timeout", "request cancelled")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal", "internal server error")
	}
}
