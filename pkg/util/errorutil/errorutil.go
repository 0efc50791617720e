package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// Error codes rendered in the JSON error body.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeInvalidCoupon      = "INVALID_COUPON"
	CodeAlreadyPurchased   = "ALREADY_PURCHASED"
	CodeSignatureInvalid   = "SIGNATURE_INVALID"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodePurchaseRequired   = "PURCHASE_REQUIRED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewInvalidCoupon(code string) error {
	return NewDomainError(CodeInvalidCoupon, "invalid coupon code", http.StatusBadRequest, map[string]any{"code": code})
}

func NewAlreadyPurchased(cause error) error {
	return &DomainError{
		Code:       CodeAlreadyPurchased,
		Message:    "you have already purchased this course",
		HTTPStatus: http.StatusBadRequest,
		Err:        cause,
	}
}

func NewSignatureInvalid(cause error) error {
	return &DomainError{
		Code:       CodeSignatureInvalid,
		Message:    "payment verification failed: invalid signature",
		HTTPStatus: http.StatusBadRequest,
		Err:        cause,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewPurchaseRequired is returned by gated endpoints; details carry the
// teaser metadata the client renders behind the paywall.
func NewPurchaseRequired(message string, details map[string]any) error {
	return NewDomainError(CodePurchaseRequired, message, http.StatusForbidden, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewGatewayUnavailable(err error) error {
	return &DomainError{
		Code:       CodeGatewayUnavailable,
		Message:    "failed to create payment order",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

func fromFiberError(e *fiber.Error) *DomainError {
	switch {
	case e.Code == http.StatusNotFound:
		return &DomainError{Code: CodeNotFound, Message: e.Message, HTTPStatus: e.Code}
	case e.Code == http.StatusUnauthorized:
		return &DomainError{Code: CodeUnauthorized, Message: e.Message, HTTPStatus: e.Code}
	case e.Code == http.StatusForbidden:
		return &DomainError{Code: CodeForbidden, Message: e.Message, HTTPStatus: e.Code}
	case e.Code >= 500:
		return NewInternalError(e).(*DomainError)
	default:
		return &DomainError{Code: CodeValidation, Message: e.Message, HTTPStatus: e.Code}
	}
}
