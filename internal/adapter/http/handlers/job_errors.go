package handlers

import (
	"errors"
	"net/http"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase"
	"mecanica_jobs/pkg"
)

var (
	errInvalidJobPayload = pkg.NewDomainErrorSimple(string(entities.CodeValidationError), "Invalid request payload", http.StatusBadRequest)
	errMissingJobID      = pkg.NewDomainErrorSimple(string(entities.CodeValidationError), "job_id is required", http.StatusBadRequest)
)

// mapJobError turns a façade error into the HTTP error envelope. Command
// errors keep their code and message; anything else is internal.
func mapJobError(err error) *pkg.AppError {
	var appErr *pkg.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var cmdErr *entities.CommandError
	if errors.As(err, &cmdErr) {
		return pkg.NewDomainError(string(cmdErr.Code), cmdErr.Message, err, statusForCode(cmdErr.Code))
	}
	if errors.Is(err, usecase.ErrChangeFeedNotConfigured) {
		return pkg.NewDomainError("STREAM_UNAVAILABLE", "Live updates are not available", err, http.StatusServiceUnavailable)
	}
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

func statusForCode(code entities.ErrorCode) int {
	switch code {
	case entities.CodeValidationError:
		return http.StatusBadRequest
	case entities.CodeNotAuthorized:
		return http.StatusForbidden
	case entities.CodeNotFound:
		return http.StatusNotFound
	case entities.CodeInvalidTransition, entities.CodeConcurrencyConflict:
		return http.StatusConflict
	case entities.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
