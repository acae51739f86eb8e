package customer

import (
	"fmt"
	"regexp"

	"loan-offers/internal/pkg/apperrors"
)

var phoneNumberPattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhoneNumber accepts an optional leading '+' followed by 2 to 15
// digits, the first of which is not zero.
func ValidatePhoneNumber(phoneNumber string) error {
	if !phoneNumberPattern.MatchString(phoneNumber) {
		return fmt.Errorf("%w: '%s' is not a valid phone number", apperrors.ErrInvalidArgument, phoneNumber)
	}
	return nil
}
