package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation                Kind = "validation"
	KindEmptyCart                 Kind = "empty_cart"
	KindBillCreate                Kind = "bill_create"
	KindBillItems                 Kind = "bill_items"
	KindStockUpdate               Kind = "stock_update"
	KindInsufficientStockAtCommit Kind = "insufficient_stock_at_commit"
	KindNotFound                  Kind = "not_found"
	KindConflict                  Kind = "conflict"
	KindUnauthorized              Kind = "unauthorized"
	KindInternal                  Kind = "internal"
)

// Error is an application error tagged with a Kind so that callers can
// branch on the failure class without string matching.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrEmptyCart) works
// for every empty-cart error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Sentinels for errors.Is.
var (
	ErrValidation                = &Error{Kind: KindValidation, Message: "validation error"}
	ErrEmptyCart                 = &Error{Kind: KindEmptyCart, Message: "Cart is empty"}
	ErrBillCreate                = &Error{Kind: KindBillCreate, Message: "Error creating bill"}
	ErrBillItems                 = &Error{Kind: KindBillItems, Message: "Error saving bill items"}
	ErrStockUpdate               = &Error{Kind: KindStockUpdate, Message: "Error updating stock"}
	ErrInsufficientStockAtCommit = &Error{Kind: KindInsufficientStockAtCommit, Message: "Insufficient stock at commit"}
	ErrNotFound                  = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrConflict                  = &Error{Kind: KindConflict, Message: "Conflict"}
	ErrUnauthorized              = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
)

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func EmptyCart() *Error {
	return New(KindEmptyCart, "Cart is empty", nil)
}

func BillCreate(err error) *Error {
	return New(KindBillCreate, "Error creating bill", err)
}

func BillItems(err error) *Error {
	return New(KindBillItems, "Error saving bill items", err)
}

func StockUpdate(productID int64, err error) *Error {
	return New(KindStockUpdate, fmt.Sprintf("Error updating stock for product %d", productID), err)
}

func InsufficientStockAtCommit(productID int64, requested int) *Error {
	return New(KindInsufficientStockAtCommit,
		fmt.Sprintf("Product %d no longer has %d units in stock", productID, requested), nil)
}

func NotFound(what string) *Error {
	return New(KindNotFound, what+" not found", nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf reports the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindEmptyCart:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInsufficientStockAtCommit:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBillCreate, KindBillItems, KindStockUpdate:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
