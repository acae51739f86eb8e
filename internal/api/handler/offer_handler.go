package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"loan-offers/internal/api/handler/dto"
	"loan-offers/internal/domain/offer"
)

type OfferHandler struct {
	service   offer.OfferService
	maxUpload int64
	logger    *slog.Logger
}

func NewOfferHandler(s offer.OfferService, maxUpload int64, l *slog.Logger) *OfferHandler {
	return &OfferHandler{
		service:   s,
		maxUpload: maxUpload,
		logger:    l.With("component", "OfferHandler"),
	}
}

// IngestOffers handles a bulk upload of loan offers.
//
// @Summary Create or update loan offers
// @Description Accepts a JSON array of offers ({"id", "Balance", "Taxes"}). Every record is checked; if any record fails, nothing is stored and every failure is returned. Failure markers are echoed in the X-Validation-Errors header.
// @Tags Offers
// @Accept json
// @Produce json
// @Param request body []object true "Offer batch"
// @Success 200 {object} dto.IngestOffersResponse "Batch stored"
// @Failure 400 {object} dto.ValidationErrorsResponse "Invalid batch"
// @Failure 413 {object} dto.ErrorResponse "Payload too large"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /offers [post]
// @Security BearerAuth
func (h *OfferHandler) IngestOffers(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		h.logger.WarnContext(r.Context(), "Rejected offer upload with wrong content type", "contentType", r.Header.Get("Content-Type"))
		respondError(w, errInvalidContentType)
		return
	}

	payload, err := h.readBody(w, r)
	if err != nil {
		respondError(w, err)
		return
	}

	count, err := h.service.IngestOffers(r.Context(), payload)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.IngestOffersResponse{Ingested: count})
}

func (h *OfferHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body := r.Body
	if h.maxUpload > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return payload, nil
}

// ListOffers handles listing the offer catalog.
//
// @Summary List loan offers
// @Tags Offers
// @Produce json
// @Success 200 {array} dto.OfferResponse "Current catalog"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /offers [get]
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListOffers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewOfferListResponse(offers))
}

// isJSONContentType accepts application/json with optional parameters such
// as charset.
func isJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
