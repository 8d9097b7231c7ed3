package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusUnprocessableEntity:
		return ErrCodeUnprocessable
	default:
		return ErrCodeInternal
	}
}

// writeDomainErr maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; internals never leak.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrForbidden):
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, "not allowed")
	case errors.Is(err, domerrors.ErrNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domerrors.ErrAlreadyOwned):
		writeErr(w, http.StatusConflict, ErrCodeConflict, "candidate already has an active sourcer")
	case errors.Is(err, domerrors.ErrSplitOverflow):
		writeErr(w, http.StatusUnprocessableEntity, ErrCodeUnprocessable, "collaborator splits would exceed 100%")
	case errors.Is(err, domerrors.ErrInvalidTransition):
		writeErr(w, http.StatusUnprocessableEntity, ErrCodeUnprocessable, "workflow does not permit this change")
	default:
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
