package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrValidation      ErrorCode = "VALIDATION"
	ErrAdmissionDenied ErrorCode = "ADMISSION_DENIED"
	ErrInternalServer  ErrorCode = "INTERNAL_SERVER_ERROR"
)

// ValidationReason identifies which write-path rule rejected a request.
type ValidationReason string

const (
	ReasonMissingFields   ValidationReason = "missing_fields"
	ReasonNonIntegerTotal ValidationReason = "non_integer_total"
	ReasonItemsNotArray   ValidationReason = "items_not_array"
	ReasonInvalidItem     ValidationReason = "invalid_item"
	ReasonUserNotFound    ValidationReason = "user_not_found"
	ReasonInvalidDate     ValidationReason = "invalid_date"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError builds a client-caused rejection. These are never logged
// as server errors and never retried.
func NewValidationError(reason ValidationReason, message string) APIError {
	return APIError{
		Code:    ErrValidation,
		Message: message,
		Details: reason,
	}
}

// Reason returns the validation reason of err, if it carries one.
func Reason(err error) (ValidationReason, bool) {
	apiErr, ok := err.(APIError)
	if !ok {
		return "", false
	}
	reason, ok := apiErr.Details.(ValidationReason)
	return reason, ok
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrValidation:
			return http.StatusBadRequest
		case ErrAdmissionDenied:
			return http.StatusForbidden
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
