package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-offers/internal/api/handler/dto"
	"loan-offers/internal/domain/offer"
	"loan-offers/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) IngestOffers(ctx context.Context, payload []byte) (int, error) {
	args := m.Called(ctx, payload)
	return args.Int(0), args.Error(1)
}

func (m *MockOfferService) ListOffers(ctx context.Context) ([]offer.LoanOffer, error) {
	args := m.Called(ctx)
	if offers, ok := args.Get(0).([]offer.LoanOffer); ok {
		return offers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOfferService) GetOffer(ctx context.Context, id int64) (*offer.LoanOffer, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*offer.LoanOffer); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func newOfferRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/offers", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestOfferHandlerIngestOffers(t *testing.T) {
	t.Run("stores a valid batch", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 1<<20, logger)
		body := `[{"id":5,"Balance":10,"Taxes":0.7}]`
		mockService.On("IngestOffers", mock.Anything, []byte(body)).Return(1, nil)

		w := httptest.NewRecorder()
		handler.IngestOffers(w, newOfferRequest(body, "application/json; charset=utf-8"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ingested":1}`, w.Body.String())
		assert.Empty(t, w.Header().Values(validationErrorsHeader))
		mockService.AssertExpectations(t)
	})

	t.Run("rejects wrong content type", func(t *testing.T) {
		for _, contentType := range []string{"", "text/plain", "application/xml", "not a media type;;"} {
			mockService := new(MockOfferService)
			handler := NewOfferHandler(mockService, 1<<20, logger)

			w := httptest.NewRecorder()
			handler.IngestOffers(w, newOfferRequest(`[]`, contentType))

			assert.Equal(t, http.StatusBadRequest, w.Code, contentType)
			assert.Equal(t, []string{offer.MarkerInvalidContentType}, w.Header().Values(validationErrorsHeader))

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Invalid Content-Type. Expected 'application/json'.", resp.Error.Message)
			mockService.AssertNotCalled(t, "IngestOffers", mock.Anything, mock.Anything)
		}
	})

	t.Run("maps malformed and non-array payloads to their markers", func(t *testing.T) {
		tests := []struct {
			err     error
			marker  string
			message string
		}{
			{fmt.Errorf("%w: unexpected EOF", apperrors.ErrMalformedInput), offer.MarkerInvalidJSON, "Invalid JSON format."},
			{apperrors.ErrPayloadNotArray, offer.MarkerNotArray, "The payload must be a JSON array."},
		}

		for _, tt := range tests {
			mockService := new(MockOfferService)
			handler := NewOfferHandler(mockService, 1<<20, logger)
			mockService.On("IngestOffers", mock.Anything, mock.Anything).Return(0, tt.err)

			w := httptest.NewRecorder()
			handler.IngestOffers(w, newOfferRequest(`{}`, "application/json"))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, []string{tt.marker}, w.Header().Values(validationErrorsHeader))

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.marker, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		}
	})

	t.Run("returns every validation error with one header marker each", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 1<<20, logger)
		batchErr := &apperrors.BatchValidationError{
			Messages: []string{
				"Offer with Id 2 must include a valid 'Balance' (integer or decimal).",
				"Each offer must include a valid 'id' (integer).",
			},
			Markers: []string{offer.MarkerInvalidBalance, offer.MarkerInvalidID},
		}
		mockService.On("IngestOffers", mock.Anything, mock.Anything).Return(0, batchErr)

		w := httptest.NewRecorder()
		handler.IngestOffers(w, newOfferRequest(`[{"id":2},{}]`, "application/json"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, batchErr.Markers, w.Header().Values(validationErrorsHeader))

		var resp dto.ValidationErrorsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, batchErr.Messages, resp.Errors)
	})

	t.Run("rejects oversized payloads", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 16, logger)

		w := httptest.NewRecorder()
		handler.IngestOffers(w, newOfferRequest(`[{"id":1,"Balance":7,"Taxes":0.2}]`, "application/json"))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		mockService.AssertNotCalled(t, "IngestOffers", mock.Anything, mock.Anything)
	})

	t.Run("internal errors are hidden", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 1<<20, logger)
		mockService.On("IngestOffers", mock.Anything, mock.Anything).Return(0, errors.New("disk on fire"))

		w := httptest.NewRecorder()
		handler.IngestOffers(w, newOfferRequest(`[]`, "application/json"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk on fire")
	})
}

func TestOfferHandlerListOffers(t *testing.T) {
	t.Run("lists the catalog", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 1<<20, logger)
		due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		mockService.On("ListOffers", mock.Anything).Return([]offer.LoanOffer{
			offer.NewLoanOffer(1, decimal.NewFromInt(7), decimal.RequireFromString("0.2"), due),
		}, nil)

		w := httptest.NewRecorder()
		handler.ListOffers(w, httptest.NewRequest(http.MethodGet, "/offers", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"balance":7,"taxes":0.2,"dueDate":"2025-03-01T00:00:00Z"}]`, w.Body.String())
	})

	t.Run("empty catalog is an empty array", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 1<<20, logger)
		mockService.On("ListOffers", mock.Anything).Return([]offer.LoanOffer{}, nil)

		w := httptest.NewRecorder()
		handler.ListOffers(w, httptest.NewRequest(http.MethodGet, "/offers", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("repository failure", func(t *testing.T) {
		mockService := new(MockOfferService)
		handler := NewOfferHandler(mockService, 1<<20, logger)
		mockService.On("ListOffers", mock.Anything).Return(nil, apperrors.ErrDatabase)

		w := httptest.NewRecorder()
		handler.ListOffers(w, httptest.NewRequest(http.MethodGet, "/offers", bytes.NewReader(nil)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, isJSONContentType("application/json"))
	assert.True(t, isJSONContentType("Application/JSON; charset=utf-8"))
	assert.False(t, isJSONContentType(""))
	assert.False(t, isJSONContentType("application/json-patch+json"))
	assert.False(t, isJSONContentType("text/json"))
}
