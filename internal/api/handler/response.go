package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"loan-offers/internal/api/handler/dto"
	"loan-offers/internal/domain/lending"
	"loan-offers/internal/domain/offer"
	"loan-offers/internal/pkg/apperrors"
)

const validationErrorsHeader = "X-Validation-Errors"

var (
	errInvalidContentType = fmt.Errorf("%w: content type must be application/json", apperrors.ErrInvalidArgument)

	errInvalidPhoneNumber = fmt.Errorf("%w: msisdn is not a valid phone number", apperrors.ErrInvalidArgument)
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, "", "An unexpected error occurred.", ""
	var batchErr *apperrors.BatchValidationError
	var validationError *apperrors.ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &batchErr):
		for _, marker := range batchErr.Markers {
			w.Header().Add(validationErrorsHeader, marker)
		}
		respondJSON(w, http.StatusBadRequest, dto.ValidationErrorsResponse{Errors: batchErr.Messages})
		return
	case errors.Is(err, apperrors.ErrNoContent):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, errInvalidContentType):
		w.Header().Add(validationErrorsHeader, offer.MarkerInvalidContentType)
		status, code, message = http.StatusBadRequest, offer.MarkerInvalidContentType, "Invalid Content-Type. Expected 'application/json'."
	case errors.Is(err, apperrors.ErrPayloadNotArray):
		w.Header().Add(validationErrorsHeader, offer.MarkerNotArray)
		status, code, message = http.StatusBadRequest, offer.MarkerNotArray, "The payload must be a JSON array."
	case errors.Is(err, apperrors.ErrMalformedInput):
		w.Header().Add(validationErrorsHeader, offer.MarkerInvalidJSON)
		status, code, message = http.StatusBadRequest, offer.MarkerInvalidJSON, "Invalid JSON format."
	case errors.As(err, &maxBytesErr):
		status, message = http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes.", maxBytesErr.Limit)
	case errors.Is(err, errInvalidPhoneNumber):
		status, message, field = http.StatusBadRequest, "'msisdn' must be a valid phone number.", "msisdn"
	case errors.Is(err, lending.ErrOfferNotFound):
		status, message = http.StatusBadRequest, "Offer not found."
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, "Customer already has an assigned offer."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized"
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}
