// Package handlers implements the JSON HTTP endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/dvloznov/wealthsense/internal/api/middleware"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/insights"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/dvloznov/wealthsense/internal/store"
	"github.com/rs/zerolog"
)

var validationErrors = []error{
	domain.ErrEmptyDescription,
	domain.ErrInvalidAmount,
	domain.ErrUnknownCategory,
	domain.ErrInvalidType,
	domain.ErrInvalidPaymentMode,
	domain.ErrInvalidDate,
	domain.ErrEmptyName,
}

// statusFor maps service failures to HTTP status codes.
func statusFor(err error) int {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	switch {
	case errors.Is(err, insights.ErrPrecondition):
		return http.StatusPreconditionFailed
	case errors.Is(err, insights.ErrSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, insights.ErrRemote):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrInsightStale):
		return http.StatusConflict
	case errors.Is(err, service.ErrInsightsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrPersist):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// writeServiceError logs server-side failures and writes the mapped status.
// Client errors carry the error text; server errors get a generic message.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg(msg)
		if status == http.StatusInternalServerError {
			middleware.WriteError(w, status, msg)
			return
		}
	} else {
		log.Warn().Err(err).Int("status", status).Msg(msg)
	}
	middleware.WriteError(w, status, err.Error())
}
