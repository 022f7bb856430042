package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Validation error types
var (
	ErrValidation   = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidInput = New(http.StatusBadRequest, "Invalid input", nil)
)

// Business logic error types
var (
	ErrInvalidStateTransition = New(http.StatusBadRequest, "Cannot cancel order in current status", nil)
	ErrOrderNotFound          = New(http.StatusNotFound, "Order not found", nil)
	ErrProductNotFound        = New(http.StatusNotFound, "Product not found", nil)
	ErrCategoryNotFound       = New(http.StatusNotFound, "Category not found", nil)
	ErrCustomerNotFound       = New(http.StatusNotFound, "Customer not found", nil)
)

// InsufficientStockError is returned when a requested quantity exceeds the
// available stock of a product. It aborts the whole order.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ProductName, e.Available)
}

// Respond writes an application error to the gin response. Unknown errors are
// masked as 500s so internal details never leak to the client.
func Respond(c *gin.Context, err error) {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": stockErr.Error()})
		return
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternalServer.Message})
}
