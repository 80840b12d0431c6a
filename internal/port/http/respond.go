package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// statusFromError maps domain and repository errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrForbidden),
		errors.Is(err, entity.ErrBanned),
		errors.Is(err, entity.ErrSelfAction):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrBadCredentials),
		errors.Is(err, entity.ErrNotVerified):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrConflict),
		errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, entity.ErrAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrPreconditionFailed),
		errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrBadCode),
		errors.Is(err, entity.ErrReviewNotAllowed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(w http.ResponseWriter, log logger.Logger, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorf("Internal error: %v", err)
		message = "internal server error"
	}
	respondWithJSON(w, status, errorResponse{Error: message})
}
