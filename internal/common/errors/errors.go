// Package errors provides standardized error handling for the registration wizard.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Local validation errors: surfaced immediately, no network call attempted.
const (
	ErrCodeEmptyIdentifier          ErrorCode = "EMPTY_IDENTIFIER"
	ErrCodeInvalidIdentity          ErrorCode = "INVALID_IDENTITY"
	ErrCodeMissingVisitDate         ErrorCode = "MISSING_VISIT_DATE"
	ErrCodeInvalidVisitDate         ErrorCode = "INVALID_VISIT_DATE"
	ErrCodeInvalidVisitWindow       ErrorCode = "INVALID_VISIT_WINDOW"
	ErrCodeNoVisitorsAdded          ErrorCode = "NO_VISITORS_ADDED"
	ErrCodeMissingVisitorName       ErrorCode = "MISSING_VISITOR_NAME"
	ErrCodeMissingContact           ErrorCode = "MISSING_CONTACT"
	ErrCodeMissingDeliveryPartner   ErrorCode = "MISSING_DELIVERY_PARTNER"
	ErrCodeUnknownCombination       ErrorCode = "UNKNOWN_COMBINATION"
	ErrCodeUnknownCategory          ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeInvalidDocumentType      ErrorCode = "INVALID_DOCUMENT_TYPE"
	ErrCodeVisitorIndexOutOfRange   ErrorCode = "VISITOR_INDEX_OUT_OF_RANGE"
	ErrCodeValidationFailed         ErrorCode = "VALIDATION_FAILED"
	ErrCodePayloadContractViolation ErrorCode = "PAYLOAD_CONTRACT_VIOLATION"
)

// Remote rejections: the server-reported reason is surfaced verbatim.
const (
	ErrCodeVerificationRejected ErrorCode = "VERIFICATION_REJECTED"
	ErrCodeRegistrationRejected ErrorCode = "REGISTRATION_REJECTED"
)

// Transport failures.
const (
	ErrCodeVerificationUnreachable       ErrorCode = "VERIFICATION_UNREACHABLE"
	ErrCodeVerificationMalformedResponse ErrorCode = "VERIFICATION_MALFORMED_RESPONSE"
	ErrCodeRegistrationUnreachable       ErrorCode = "REGISTRATION_UNREACHABLE"
)

const (
	ErrCodeRequestInFlight     ErrorCode = "REQUEST_IN_FLIGHT"
	ErrCodeSessionStoreFailure ErrorCode = "SESSION_STORE_FAILURE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Error categories returned by GetErrorCategory.
const (
	CategoryValidation      = "VALIDATION"
	CategoryRemoteRejection = "REMOTE_REJECTION"
	CategoryTransport       = "TRANSPORT"
	CategoryConcurrency     = "CONCURRENCY"
	CategoryOther           = "OTHER"
)

const transportRetryMessage = "The service could not be reached. Please try again."

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any *StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

func newLocal(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyIdentifierError is returned when the employee identifier is blank.
func NewEmptyIdentifierError() *StandardError {
	return newLocal(ErrCodeEmptyIdentifier, "Please enter your employee ID", "")
}

// NewInvalidIdentityError is returned when no integer employee id can be resolved.
func NewInvalidIdentityError(details string) *StandardError {
	return newLocal(ErrCodeInvalidIdentity, "Employee identity is missing or not numeric", details)
}

// NewMissingVisitDateError is returned when the visit date or time is absent.
func NewMissingVisitDateError() *StandardError {
	return newLocal(ErrCodeMissingVisitDate, "Please select visit date and time", "")
}

// NewInvalidVisitDateError is returned for malformed date or time text.
func NewInvalidVisitDateError(field, value string) *StandardError {
	return newLocal(ErrCodeInvalidVisitDate, "Visit date or time is not valid",
		fmt.Sprintf("field: %s, value: %q", field, value))
}

// NewInvalidVisitWindowError is returned when the visit ends before it starts.
func NewInvalidVisitWindowError(details string) *StandardError {
	return newLocal(ErrCodeInvalidVisitWindow, "Visit end must not be before visit start", details)
}

// NewNoVisitorsAddedError is returned when no named entry exists in the list.
func NewNoVisitorsAddedError(entryLabel string) *StandardError {
	return newLocal(ErrCodeNoVisitorsAdded, fmt.Sprintf("Please add at least one %s", entryLabel), "")
}

// NewMissingVisitorNameError is returned when a structured row has no name.
func NewMissingVisitorNameError(index int) *StandardError {
	return newLocal(ErrCodeMissingVisitorName, "Every visitor needs a name",
		fmt.Sprintf("index: %d", index))
}

// NewMissingContactError is returned when the group contact is blank.
func NewMissingContactError() *StandardError {
	return newLocal(ErrCodeMissingContact, "Please enter contact details", "")
}

// NewMissingDeliveryPartnerError is returned when the delivery partner has no name.
func NewMissingDeliveryPartnerError() *StandardError {
	return newLocal(ErrCodeMissingDeliveryPartner, "Please enter the name of the delivery partner", "")
}

// NewUnknownCombinationError is returned for a visitor type the category does not list.
func NewUnknownCombinationError(category, visitorType string) *StandardError {
	return newLocal(ErrCodeUnknownCombination, "Visitor type is not available for this category",
		fmt.Sprintf("category: %s, visitorType: %s", category, visitorType))
}

// NewUnknownCategoryError is returned for a category outside the taxonomy.
func NewUnknownCategoryError(category string) *StandardError {
	return newLocal(ErrCodeUnknownCategory, "Unknown visitor category",
		fmt.Sprintf("category: %s", category))
}

// NewInvalidDocumentTypeError is returned when the upload extension is not accepted.
func NewInvalidDocumentTypeError(filename string, accepted []string) *StandardError {
	return newLocal(ErrCodeInvalidDocumentType, "Document type is not accepted",
		fmt.Sprintf("file: %s, accepted: %s", filename, strings.Join(accepted, ",")))
}

// NewVisitorIndexOutOfRangeError is returned when a row index does not exist.
func NewVisitorIndexOutOfRangeError(index, length int) *StandardError {
	return newLocal(ErrCodeVisitorIndexOutOfRange, "Visitor entry does not exist",
		fmt.Sprintf("index: %d, length: %d", index, length))
}

// NewValidationFailedError wraps request body schema violations.
func NewValidationFailedError(details string) *StandardError {
	return newLocal(ErrCodeValidationFailed, "Request validation failed", details)
}

// NewPayloadContractViolationError is returned when a built payload breaks the registration contract.
func NewPayloadContractViolationError(details string) *StandardError {
	return newLocal(ErrCodePayloadContractViolation, "Submission payload does not match the registration contract", details)
}

// NewVerificationRejectedError carries the verifier's reason verbatim.
func NewVerificationRejectedError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationRejected,
		Message:   reason,
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistrationRejectedError carries the registration service's reason verbatim.
func NewRegistrationRejectedError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistrationRejected,
		Message:   reason,
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationUnreachableError creates a retryable transport error.
func NewVerificationUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationUnreachable,
		Message:   transportRetryMessage,
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationMalformedResponseError is returned when the verifier answers with neither employee nor error.
func NewVerificationMalformedResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationMalformedResponse,
		Message:   transportRetryMessage,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistrationUnreachableError creates a retryable transport error.
func NewRegistrationUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistrationUnreachable,
		Message:   transportRetryMessage,
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInFlightError is returned while the same gate is still resolving.
func NewRequestInFlightError(gate string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInFlight,
		Message:   "A request is already in progress",
		Details:   fmt.Sprintf("gate: %s", gate),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailureError wraps a session store failure.
func NewSessionStoreFailureError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailure,
		Message:   "Session storage error",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps any unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError when one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeVerificationRejected, ErrCodeRegistrationRejected:
		return CategoryRemoteRejection
	case ErrCodeVerificationUnreachable, ErrCodeVerificationMalformedResponse, ErrCodeRegistrationUnreachable:
		return CategoryTransport
	case ErrCodeRequestInFlight:
		return CategoryConcurrency
	case ErrCodeSessionStoreFailure, ErrCodeInternal:
		return CategoryOther
	}
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MISSING_"),
		strings.HasPrefix(codeStr, "INVALID_"),
		strings.HasPrefix(codeStr, "UNKNOWN_"),
		strings.Contains(codeStr, "VALIDATION"),
		code == ErrCodeEmptyIdentifier,
		code == ErrCodeNoVisitorsAdded,
		code == ErrCodeVisitorIndexOutOfRange,
		code == ErrCodePayloadContractViolation:
		return CategoryValidation
	default:
		return CategoryOther
	}
}

// HTTPStatus maps an error code to the response status of the wizard API.
func HTTPStatus(code ErrorCode) int {
	switch GetErrorCategory(code) {
	case CategoryValidation, CategoryRemoteRejection:
		return http.StatusUnprocessableEntity
	case CategoryTransport:
		return http.StatusBadGateway
	case CategoryConcurrency:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
