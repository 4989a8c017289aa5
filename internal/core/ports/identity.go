// internal/core/ports/identity.go
package ports

// IDGenerator produces globally-unique string identifiers for new records.
// Collisions are assumed negligible.
type IDGenerator interface {
	NewID() string
}
