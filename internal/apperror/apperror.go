// Package apperror defines the client-visible error taxonomy. Every error has a
// kind with a fixed HTTP status and a short detail message.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindServerError Kind = iota
	KindBadRequest
	KindNotAuthenticated
	KindPermissionDenied
	KindNotFound
	KindRequestTimeout
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotAuthenticated:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRequestTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindRequestTimeout:
		return "request_timeout"
	default:
		return "server_error"
	}
}

// Error is a classified error. Err holds the underlying cause, if any; it is
// logged but never returned to clients.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// BadRequest reports a request rejected at the boundary.
func BadRequest(detail string) *Error {
	return New(KindBadRequest, detail)
}

// Internal wraps an unexpected storage or infrastructure failure.
func Internal(detail string, cause error) *Error {
	return &Error{Kind: KindServerError, Detail: detail, Err: cause}
}

var (
	ErrNotAuthenticated       = New(KindNotAuthenticated, "User not authenticated")
	ErrCredentials            = New(KindNotAuthenticated, "Could not validate credentials")
	ErrNotAdmin               = New(KindPermissionDenied, "Not admin")
	ErrNotCustomer            = New(KindPermissionDenied, "Not customer")
	ErrServer                 = New(KindServerError, "Server error")
	ErrRequestTimeout         = New(KindRequestTimeout, "Request timeout")
	ErrInvalidID              = New(KindBadRequest, "Invalid id")
	ErrInvalidPasswordOrEmail = New(KindBadRequest, "Invalid password or email")

	ErrCustomerNotFound      = New(KindNotFound, "Customer not found")
	ErrCustomerAlreadyExists = New(KindBadRequest, "Customer already exists")
	ErrCustomerHasOrders     = New(KindBadRequest, "Customer has orders")

	ErrItemNotFound          = New(KindNotFound, "Item not found")
	ErrItemAlreadyExists     = New(KindBadRequest, "Item already exists")
	ErrItemHasOrders         = New(KindBadRequest, "Item has orders")
	ErrItemNotEnoughQuantity = New(KindBadRequest, "Item not enough quantity")
)

// As extracts the classified error from err. Unclassified errors are reported
// as ErrServer carrying err as the cause.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindServerError, Detail: ErrServer.Detail, Err: err}
}
