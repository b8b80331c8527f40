package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/obrastudio/site-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")

		w.WriteHeader(http.StatusRequestEntityTooLarge)
		truncated, _ := json.Marshal(map[string]any{
			"error":  "Response too large",
			"status": "error",
		})
		w.Write(truncated)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteJSONWithStatus writes an explicit status code before the body. The
// content type must be set ahead of WriteHeader or it is silently dropped.
func (r Responder) WriteJSONWithStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	r.WriteJSON(w, data)
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		r.WriteJSONWithStatus(w, http.StatusInternalServerError, map[string]any{
			"error":  "Internal Server Error",
			"status": "error",
		})
		return
	}

	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}
	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}
	if apiErr.Cause != nil {
		response["cause"] = apiErr.GetFullError()
	}

	r.WriteJSONWithStatus(w, apiErr.StatusCode, response)
}

// queryEnvelope is the stable response shape of the query endpoint: data and
// error are both always present.
type queryEnvelope struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// WriteQueryData writes a successful {data, error} envelope.
func (r Responder) WriteQueryData(w http.ResponseWriter, data any) {
	r.WriteJSON(w, queryEnvelope{Data: data})
}

// WriteQueryError writes a failed {data, error} envelope with the taxonomy
// status code.
func (r Responder) WriteQueryError(w http.ResponseWriter, err error) {
	msg := err.Error()
	var apiErr *errs.ApiErr
	status := http.StatusInternalServerError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	} else {
		r.logger.Error().Msg(msg)
		msg = "internal server error"
	}
	r.WriteJSONWithStatus(w, status, queryEnvelope{Error: &msg})
}
