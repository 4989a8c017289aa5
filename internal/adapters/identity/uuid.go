// internal/adapters/identity/uuid.go
package identity

import (
	"github.com/google/uuid"

	"github.com/dmercado/puntoventa/internal/core/ports"
)

// UUIDGenerator issues random UUIDv4 identifiers.
type UUIDGenerator struct{}

// Statically assert that UUIDGenerator implements the port.
var _ ports.IDGenerator = UUIDGenerator{}

// NewUUIDGenerator creates a new UUID generator.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// NewID returns a fresh UUIDv4 string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
