package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"

	CodeCatalogUnavailable    Code = "CATALOG_UNAVAILABLE"
	CodeIneligible            Code = "INELIGIBLE"
	CodeSelectionMismatch     Code = "SELECTION_MISMATCH"
	CodeConcurrentApplication Code = "CONCURRENT_APPLICATION"
	CodeInvalidDocumentState  Code = "INVALID_DOCUMENT_STATE"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	Recoverable    bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		Recoverable:    true,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		Recoverable:   true,
		PublicMessage: "resource not found",
	},
	CodeConflict: {
		HTTPStatus:     http.StatusConflict,
		Recoverable:    true,
		PublicMessage:  "conflict detected",
		DetailsAllowed: true,
	},
	CodeStateConflict: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		Recoverable:    true,
		PublicMessage:  "state transition disallowed",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		Recoverable:   true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		Recoverable:    true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeCatalogUnavailable: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		Recoverable:    true,
		PublicMessage:  "no schemes available",
		DetailsAllowed: false,
	},
	CodeIneligible: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		Recoverable:    true,
		PublicMessage:  "the selected scheme is no longer applicable",
		DetailsAllowed: true,
	},
	CodeSelectionMismatch: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		Recoverable:    true,
		PublicMessage:  "free item selection does not match entitlement",
		DetailsAllowed: true,
	},
	CodeConcurrentApplication: {
		HTTPStatus:    http.StatusConflict,
		Retryable:     true,
		Recoverable:   true,
		PublicMessage: "previous scheme application still in progress",
	},
	CodeInvalidDocumentState: {
		HTTPStatus:     http.StatusConflict,
		Recoverable:    false,
		PublicMessage:  "schemes can only be applied on draft orders",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Recoverable reports whether the caller may adjust its input and retry
// within the same session.
func Recoverable(code Code) bool {
	return MetadataFor(code).Recoverable
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
