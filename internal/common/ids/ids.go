package ids

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator hands out identifiers for stored records.
type Generator interface {
	// NewID returns a random UUID string, used for commands.
	NewID() string
	// NewSortableID returns a ULID string that sorts by creation time, used for audit entries.
	NewSortableID() string
}

// DefaultGenerator implements Generator with google/uuid and oklog/ulid.
type DefaultGenerator struct{}

func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

func (g *DefaultGenerator) NewID() string {
	return uuid.New().String()
}

func (g *DefaultGenerator) NewSortableID() string {
	return ulid.Make().String()
}

// RandomToken returns n random bytes encoded as unpadded base64url.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
