package offer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"loan-offers/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	fieldID      = "id"
	fieldBalance = "Balance"
	fieldTaxes   = "Taxes"
)

const (
	MarkerInvalidContentType = "InvalidContentType"
	MarkerInvalidJSON        = "InvalidJsonFormat"
	MarkerNotArray           = "PayloadMustBeJSONArray"
	MarkerInvalidID          = "MustBeValidID (integer)"
	MarkerInvalidBalance     = "MustIncludeBalance (integer or decimal)"
	MarkerInvalidTaxes       = "MustBeValidTaxes (decimal)"
	MarkerNegativeAmount     = "MustBeNonNegative"
)

const msgInvalidID = "Each offer must include a valid 'id' (integer)."

// ValidationFailure is one rejected rule for one record.
type ValidationFailure struct {
	Marker  string
	Message string
}

// ValidateBatch parses payload as a JSON array of raw offer records and checks
// every record, stopping at the first failing rule of a record but never at
// the batch level. Accepted offers are stamped with dueDate.
//
// A payload that is not JSON yields apperrors.ErrMalformedInput; one that is
// JSON but not an array yields apperrors.ErrPayloadNotArray. In both cases no
// record is inspected.
func ValidateBatch(payload []byte, dueDate time.Time) ([]LoanOffer, []ValidationFailure, error) {
	records, err := decodeRecords(payload)
	if err != nil {
		return nil, nil, err
	}

	accepted := make([]LoanOffer, 0, len(records))
	var failures []ValidationFailure

	for _, raw := range records {
		record, _ := raw.(map[string]any)

		offer, recordFailures := validateRecord(record, dueDate)
		if len(recordFailures) > 0 {
			failures = append(failures, recordFailures...)
			continue
		}
		accepted = append(accepted, offer)
	}

	return accepted, failures, nil
}

func decodeRecords(payload []byte) ([]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedInput, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", apperrors.ErrMalformedInput)
	}

	records, ok := doc.([]any)
	if !ok {
		return nil, apperrors.ErrPayloadNotArray
	}
	return records, nil
}

func validateRecord(record map[string]any, dueDate time.Time) (LoanOffer, []ValidationFailure) {
	idText, id, ok := integerField(record, fieldID)
	if !ok {
		return LoanOffer{}, []ValidationFailure{{Marker: MarkerInvalidID, Message: msgInvalidID}}
	}

	balance, ok := numericField(record, fieldBalance)
	if !ok {
		return LoanOffer{}, []ValidationFailure{{
			Marker:  MarkerInvalidBalance,
			Message: fmt.Sprintf("Offer with Id %s must include a valid 'Balance' (integer or decimal).", idText),
		}}
	}

	taxes, ok := numericField(record, fieldTaxes)
	if !ok {
		return LoanOffer{}, []ValidationFailure{{
			Marker:  MarkerInvalidTaxes,
			Message: fmt.Sprintf("Offer with Id %s must include a valid 'Taxes' (decimal).", idText),
		}}
	}

	offer := NewLoanOffer(id, balance, taxes, dueDate)
	if failures := checkConstraints(offer, idText); len(failures) > 0 {
		return LoanOffer{}, failures
	}
	return offer, nil
}

// checkConstraints reports every entity-level constraint offer breaks.
func checkConstraints(offer LoanOffer, idText string) []ValidationFailure {
	var failures []ValidationFailure
	if offer.Balance.IsNegative() {
		failures = append(failures, ValidationFailure{
			Marker:  MarkerNegativeAmount,
			Message: fmt.Sprintf("Offer with Id %s: '%s' must be greater than or equal to 0.", idText, fieldBalance),
		})
	}
	if offer.Taxes.IsNegative() {
		failures = append(failures, ValidationFailure{
			Marker:  MarkerNegativeAmount,
			Message: fmt.Sprintf("Offer with Id %s: '%s' must be greater than or equal to 0.", idText, fieldTaxes),
		})
	}
	return failures
}

// integerField returns the raw JSON text and value of an integer-valued number
// that fits in 32 bits.
func integerField(record map[string]any, name string) (string, int64, bool) {
	number, ok := record[name].(json.Number)
	if !ok {
		return "", 0, false
	}
	value, err := ParseAmount(number.String())
	if err != nil || !value.IsInteger() {
		return "", 0, false
	}
	if value.LessThan(decimal.NewFromInt(math.MinInt32)) || value.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return "", 0, false
	}
	return number.String(), value.IntPart(), true
}

func numericField(record map[string]any, name string) (decimal.Decimal, bool) {
	number, ok := record[name].(json.Number)
	if !ok {
		return decimal.Zero, false
	}
	value, err := ParseAmount(number.String())
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
