package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thywilljoshua/summarease/internal/domain"
	"github.com/thywilljoshua/summarease/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	switch t := domain.TypeOf(err); t {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest, string(t)
	case domain.ErrorTypeExtraction:
		return http.StatusUnprocessableEntity, string(t)
	case domain.ErrorTypeParse, domain.ErrorTypeService:
		return http.StatusBadGateway, string(t)
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	evt := s.logger.Warn()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		evt = s.logger.Error()
	}
	evt.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	msg := domain.Message(err)
	if kind == "internal" {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ValidationError("invalid request body", err)
	}
	return nil
}
