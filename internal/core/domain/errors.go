// internal/core/domain/errors.go
package domain

import "fmt"

// ValidationError reports a missing or malformed user selection: no client
// chosen, no product chosen, a non-positive quantity, or a field that fails
// entity validation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError reports a reference to an entity id that does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// InsufficientStockError reports a requested quantity that exceeds the
// product's current stock. Available carries the stock observed at the time
// of the check so callers can surface it to the user.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// StorageError reports a persistence read or write failure for a collection
// key. It wraps the underlying adapter error.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
