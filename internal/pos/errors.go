package pos

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Store lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// ValidationError is a caller-correctable rejection tagged with the request
// field that caused it. The terminal must correct the input and resubmit;
// nothing is retried server-side.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func errCustomerNotFound() *ValidationError {
	return &ValidationError{Field: "rfid", Message: "Customer with this RFID not found."}
}

func errProductNotFound() *ValidationError {
	return &ValidationError{Field: "product", Message: "Product not found."}
}

func errInsufficientStock() *ValidationError {
	return &ValidationError{Field: "stock", Message: "Not enough stock available."}
}

func errPriceMismatch(expected decimal.Decimal) *ValidationError {
	return &ValidationError{
		Field:   "total_price",
		Message: fmt.Sprintf("Total price must equal product price × quantity (₱%s).", expected.StringFixed(2)),
	}
}
