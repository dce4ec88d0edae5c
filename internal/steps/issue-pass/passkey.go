package issuepass

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const passKeyLength = 10

// NewPassKey returns a 10-character upper-case alphanumeric key.
func NewPassKey() string {
	return passKeyFrom(uuid.New())
}

func passKeyFrom(id uuid.UUID) string {
	encoded := strings.ToUpper(new(big.Int).SetBytes(id[:]).Text(36))
	if len(encoded) < passKeyLength {
		encoded = strings.Repeat("0", passKeyLength-len(encoded)) + encoded
	}
	return encoded[len(encoded)-passKeyLength:]
}
