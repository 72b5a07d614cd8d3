package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"nba_dashboard/backend/internal/metrics"
	"nba_dashboard/backend/internal/models"
	"nba_dashboard/backend/internal/prediction"
	"nba_dashboard/backend/internal/repository"
	"nba_dashboard/backend/internal/service"

	"github.com/rs/zerolog/log"
)

// errBadRequest marks malformed query parameters and bodies
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write response body")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, models.ErrInvalidSeason):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, prediction.ErrMissingRatings):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status. Server errors are logged and answered generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := RequestIDFrom(r.Context())

	msg := err.Error()
	if status == http.StatusInternalServerError {
		metrics.RecordError("api", "internal")
		log.Error().Err(err).Str("request_id", id).Str("path", r.URL.Path).Msg("Request failed")
		msg = "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: msg, RequestID: id})
}

func intParam(r *http.Request, name string, required bool, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", errBadRequest, name)
		}
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, name)
	}
	return v, nil
}

func (s *Server) seasonParam(r *http.Request) (string, error) {
	season := r.URL.Query().Get("season")
	if season == "" {
		season = s.opts.DefaultSeason
	}
	if err := models.ValidateSeason(season); err != nil {
		return "", err
	}
	return season, nil
}

// decodeBody reads a JSON body into dest. An empty body leaves dest untouched.
func decodeBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
}
