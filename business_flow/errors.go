// Package businessflow contains the core business logic and use cases for the feedback pipeline
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Merchant-related errors
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationNotOwned = errors.New("location does not belong to merchant")

	// Code issuance errors
	ErrBatchSizeOutOfRange = errors.New("batch size must be between 1 and 100")
	ErrLabelSchemeInvalid  = errors.New("label scheme is invalid")
	ErrLabelRequired       = errors.New("label is required for every code")
	ErrResolveURLInvalid   = errors.New("resolve URL is invalid")
	ErrShortCodeExhausted  = errors.New("short code generation exhausted retry budget")

	// Code lookup errors
	ErrCodeNotFound = errors.New("code not found")

	// Scan errors
	ErrSessionIDRequired = errors.New("session ID is required")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrCTATypeInvalid     = errors.New("CTA type is invalid")

	// Filter errors
	ErrInvalidPage       = errors.New("page must be at least 1")
	ErrInvalidPageSize   = errors.New("page size must be between 1 and 100")
	ErrInvalidDayRange   = errors.New("days must be between 1 and 365")
	ErrBatchIDRequired   = errors.New("batch ID is required")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrCacheNotAvailable = errors.New("cache not available")
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

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsMerchantNotFound(err error) bool {
	return errors.Is(err, ErrMerchantNotFound)
}

func IsLocationNotFound(err error) bool {
	return errors.Is(err, ErrLocationNotFound)
}

func IsLocationNotOwned(err error) bool {
	return errors.Is(err, ErrLocationNotOwned)
}

func IsBatchSizeOutOfRange(err error) bool {
	return errors.Is(err, ErrBatchSizeOutOfRange)
}

func IsLabelSchemeInvalid(err error) bool {
	return errors.Is(err, ErrLabelSchemeInvalid)
}

func IsLabelRequired(err error) bool {
	return errors.Is(err, ErrLabelRequired)
}

func IsResolveURLInvalid(err error) bool {
	return errors.Is(err, ErrResolveURLInvalid)
}

func IsShortCodeExhausted(err error) bool {
	return errors.Is(err, ErrShortCodeExhausted)
}

func IsCodeNotFound(err error) bool {
	return errors.Is(err, ErrCodeNotFound)
}

func IsSessionIDRequired(err error) bool {
	return errors.Is(err, ErrSessionIDRequired)
}

func IsSubmissionNotFound(err error) bool {
	return errors.Is(err, ErrSubmissionNotFound)
}

func IsRatingOutOfRange(err error) bool {
	return errors.Is(err, ErrRatingOutOfRange)
}

func IsCTATypeInvalid(err error) bool {
	return errors.Is(err, ErrCTATypeInvalid)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsInvalidDayRange(err error) bool {
	return errors.Is(err, ErrInvalidDayRange)
}

func IsBatchIDRequired(err error) bool {
	return errors.Is(err, ErrBatchIDRequired)
}

func IsBatchNotFound(err error) bool {
	return errors.Is(err, ErrBatchNotFound)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
