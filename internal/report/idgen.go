package report

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// DefaultAlphabet is the 62-symbol alphanumeric alphabet used for short IDs.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// IDGenerator draws a random short ID candidate.
type IDGenerator func() string

// NewIDGenerator returns a generator of length-character IDs drawn uniformly from alphabet.
func NewIDGenerator(alphabet string, length int) (IDGenerator, error) {
	if length <= 0 {
		return nil, fmt.Errorf("short id length must be positive, got %d", length)
	}

	gen, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("short id generator: %w", err)
	}

	return IDGenerator(gen), nil
}
