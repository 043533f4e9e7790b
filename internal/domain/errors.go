package domain

import "errors"

// Integrity failure kinds. Field-level kinds are returned by validation;
// operations wrap the first one encountered in ErrValidationFailed so the
// boundary can match either the operation outcome or the specific field.
var (
	ErrInvalidName     = errors.New("name must be non-empty and at most 35 characters")
	ErrMissingQuantity = errors.New("quantity is required")
	ErrInvalidQuantity = errors.New("quantity out of range")
	ErrInvalidSupplier = errors.New("supplier must be at most 25 characters")
	ErrMissingPrice    = errors.New("price is required")
	ErrInvalidPrice    = errors.New("price out of range")
	ErrMissingImage    = errors.New("image data is empty")

	// ErrValidationFailed is the operation-boundary aggregate of the field
	// kinds above. Nothing is written when it is returned.
	ErrValidationFailed = errors.New("validation failed")

	// ErrStorageFailed means the underlying engine rejected a write that had
	// already passed validation.
	ErrStorageFailed = errors.New("storage rejected the write")

	// ErrNotFound is returned for operations against a nonexistent id.
	ErrNotFound = errors.New("item not found")

	// Quantity-adjustment rejections. Both leave the row and the total
	// inventory value untouched.
	ErrQuantityUnderflow = errors.New("quantity cannot go below zero")
	ErrQuantityOverflow  = errors.New("quantity would reach the maximum")
)
