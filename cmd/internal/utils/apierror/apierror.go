package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes instead of a Go error:
// the HTTP status plus the body the user sees.
type ErrorResponse interface {
	error
	Code() int
}

type apiError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *apiError) Code() int     { return e.Status }
func (e *apiError) Error() string { return e.Message }

func NewSimple(code int, message string) ErrorResponse {
	return &apiError{Status: code, Message: message}
}

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", name))
}

func NewInvalidParamTypeError(name, typ string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", name, typ))
}

// NewOperationFailed is the generic failure of a storage call, carrying the
// per-operation message ("Error fetching clients").
func NewOperationFailed(message string) ErrorResponse {
	return NewSimple(http.StatusInternalServerError, message)
}

func NewNotFound(message string) ErrorResponse {
	return NewSimple(http.StatusNotFound, message)
}

// FromValidationError reports each failing field with the tag it broke.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return &apiError{Status: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Malformed request body")
	NotFoundError         = NewSimple(http.StatusNotFound, "Not found")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Invalid or missing authentication token")
	TooManyRequestsError  = NewSimple(http.StatusTooManyRequests, "Too many requests, try again later")
	MissingFileError      = NewSimple(http.StatusBadRequest, "Please select a file")

	UserAlreadyExistsError    = NewSimple(http.StatusConflict, "A user with this email already exists")
	UserAlreadyConfirmedError = NewSimple(http.StatusConflict, "User is already confirmed")

	IDPInvalidPasswordError     = NewSimple(http.StatusBadRequest, "Password does not satisfy the password policy")
	IDPExistingEmailError       = NewSimple(http.StatusConflict, "Email is already registered")
	IDPUserNotFoundError        = NewSimple(http.StatusNotFound, "User not found")
	IDPUserNotConfirmedError    = NewSimple(http.StatusForbidden, "User has not confirmed their email")
	IDPCredentialsMismatchError = NewSimple(http.StatusUnauthorized, "Incorrect email or password")
	IDPConfirmCodeMismatchError = NewSimple(http.StatusBadRequest, "Confirmation code does not match")
	IDPConfirmCodeExpiredError  = NewSimple(http.StatusBadRequest, "Confirmation code has expired")
)
