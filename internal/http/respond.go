package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	// Notifications raised by a failed cart operation.
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func handleError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	respondJSON(w, status, body)
}

// errorResponse maps cart, catalog and transport errors to HTTP statuses.
func errorResponse(err error) (int, ErrorResponse) {
	var (
		httpStatus int
		code       string
		details    string
	)

	var userErrs *domain.UserErrors
	var statusErr *storefront.StatusError
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		httpStatus, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCollectionNotFound):
		httpStatus, code = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoCheckout):
		httpStatus, code = http.StatusConflict, "no_checkout"
	case errors.As(err, &userErrs):
		httpStatus, code = http.StatusUnprocessableEntity, "rejected"
		details = userErrs.Joined()
	case errors.Is(err, service.ErrNoCart):
		httpStatus, code = http.StatusConflict, "no_cart"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		httpStatus, code = http.StatusServiceUnavailable, "service_unavailable"
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests:
		httpStatus, code = http.StatusTooManyRequests, "rate_limit_exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus, code = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, service.ErrOperation), errors.Is(err, service.ErrInitialization):
		httpStatus, code = http.StatusBadGateway, "storefront_error"
	default:
		httpStatus, code = http.StatusInternalServerError, "internal_error"
	}

	return httpStatus, ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Details: details,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

const maxBodySize = 1 << 20 // 1MB
