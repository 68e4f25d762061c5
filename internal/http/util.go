package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"stresswatch/internal/domain"
	"stresswatch/internal/inference"
	"stresswatch/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK[T any](w http.ResponseWriter, result T) {
	writeJSON(w, http.StatusOK, Ok(result))
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Fail(message))
}

// writeError maps domain and boundary failures to HTTP statuses:
// validation -> 400, unknown subject -> 404, oracle trouble -> 502,
// anything else -> 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidNumeric),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrMissingActivity),
		errors.Is(err, domain.ErrUnknownActivity):
		writeFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inference.ErrUnavailable),
		errors.Is(err, inference.ErrMalformedResponse):
		writeFail(w, http.StatusBadGateway, err.Error())
	default:
		writeFail(w, http.StatusInternalServerError, err.Error())
	}
}
