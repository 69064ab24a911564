package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeIdempotency  Code = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"

	// ERP journal failures, one per remote operation.
	CodeUniformGetList    Code = "AXAPTA_UNIFORM_GET_LIST_ERROR"
	CodeUniformGetDetails Code = "AXAPTA_UNIFORM_GET_DETAILS_ERROR"
	CodeUniformByFRP      Code = "AXAPTA_UNIFORM_BY_FRP_ERROR"
	CodeUniformCreateItem Code = "AXAPTA_UNIFORM_CREATE_ITEM_ERROR"
	CodeUniformUpdateItem Code = "AXAPTA_UNIFORM_UPDATE_ITEM_ERROR"
	CodeUniformDeleteItem Code = "AXAPTA_UNIFORM_DELETE_ITEM_ERROR"
	CodeUniformPostItem   Code = "AXAPTA_UNIFORM_POST_ITEM_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:     http.StatusUnauthorized,
		Retryable:      false,
		PublicMessage:  "authentication required",
		DetailsAllowed: false,
	},
	CodeForbidden: {
		HTTPStatus:     http.StatusForbidden,
		Retryable:      false,
		PublicMessage:  "access denied",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeConflict: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "conflict detected",
		DetailsAllowed: false,
	},
	CodeIdempotency: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "idempotency key reused",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		Retryable:      true,
		PublicMessage:  "internal server error",
		DetailsAllowed: false,
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeUniformGetList: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to get the list of uniform transfers",
	},
	CodeUniformGetDetails: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to get uniform transfer details",
	},
	CodeUniformByFRP: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to get uniforms available for return",
	},
	CodeUniformCreateItem: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to create uniform transfer",
	},
	CodeUniformUpdateItem: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to update uniform transfer",
	},
	CodeUniformDeleteItem: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to delete uniform transfer",
	},
	CodeUniformPostItem: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "failed to post uniform transfer",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
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

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// WrapRemote wraps a failed remote call under code. The message joins the code's
// public message with the original error text so callers see what the remote said.
func WrapRemote(code Code, err error) *Error {
	msg := MetadataFor(code).PublicMessage
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return Wrap(code, err, msg)
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

// HasCode reports whether err carries the given typed code anywhere in its chain.
func HasCode(err error, code Code) bool {
	for err != nil {
		if typed, ok := err.(*Error); ok && typed != nil && typed.Code() == code {
			return true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				if HasCode(inner, code) {
					return true
				}
			}
			return false
		}
		err = stdErrors.Unwrap(err)
	}
	return false
}
