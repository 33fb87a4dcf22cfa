// Package businessflow contains the core business logic and use cases for quote pricing and numbering
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Pricing errors
	ErrNoPricingAvailable            = errors.New("no pricing available for the requested rental period")
	ErrInconsistentTierConfiguration = errors.New("pricing tier configuration is inconsistent")
	ErrInvalidRiderParameters        = errors.New("rider is enabled but required parameters are missing or invalid")
	ErrRiderNotAllowedForDomain      = errors.New("rider is not allowed for this domain")
	ErrInvalidRentalDays             = errors.New("rental days must be at least 1")
	ErrInvalidQuantity               = errors.New("quantity must be at least 1")
	ErrEquipmentNotFound             = errors.New("equipment not found")
	ErrEquipmentInactive             = errors.New("equipment is inactive")
	ErrEquipmentUnavailable          = errors.New("requested quantity exceeds available quantity")

	// Tier editing errors
	ErrBaseTierMissing        = errors.New("base tier (period start 1) is missing")
	ErrBaseTierNotEditable    = errors.New("base tier discount is pinned to zero")
	ErrTierPeriodInvalid      = errors.New("tier period is invalid")
	ErrTierOverlap            = errors.New("tier period overlaps an existing tier")
	ErrDiscountOutOfRange     = errors.New("discount percent must be between 0 and 100")
	ErrPriceNegative          = errors.New("price per day must not be negative")

	// Numbering errors
	ErrNumberAllocationExhausted = errors.New("quote number allocation retries exhausted")
	ErrUnknownDomain             = errors.New("unknown quoting domain")

	// Quote errors
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrQuoteLineNotFound     = errors.New("quote line item not found")
	ErrQuoteHasNoLines       = errors.New("quote must contain at least one line item")
	ErrQuoteNotEditable      = errors.New("only draft quotes can be edited")
	ErrClientNotFound        = errors.New("client not found")
	ErrInvalidQuoteStatus    = errors.New("invalid quote status")
	ErrCaptchaRequired       = errors.New("captcha verification failed")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffInactive      = errors.New("staff account is inactive")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsNoPricingAvailable(err error) bool {
	return errors.Is(err, ErrNoPricingAvailable)
}

func IsInconsistentTierConfiguration(err error) bool {
	return errors.Is(err, ErrInconsistentTierConfiguration)
}

func IsInvalidRiderParameters(err error) bool {
	return errors.Is(err, ErrInvalidRiderParameters)
}

func IsNumberAllocationExhausted(err error) bool {
	return errors.Is(err, ErrNumberAllocationExhausted)
}

func IsEquipmentNotFound(err error) bool {
	return errors.Is(err, ErrEquipmentNotFound)
}

func IsQuoteNotFound(err error) bool {
	return errors.Is(err, ErrQuoteNotFound)
}

func IsQuoteNotEditable(err error) bool {
	return errors.Is(err, ErrQuoteNotEditable)
}

func IsClientNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound)
}

func IsUnknownDomain(err error) bool {
	return errors.Is(err, ErrUnknownDomain)
}

func IsRiderNotAllowedForDomain(err error) bool {
	return errors.Is(err, ErrRiderNotAllowedForDomain)
}

func IsCaptchaRequired(err error) bool {
	return errors.Is(err, ErrCaptchaRequired)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsStaffInactive(err error) bool {
	return errors.Is(err, ErrStaffInactive)
}
