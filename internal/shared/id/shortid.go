// Package id generates random human-readable identifiers.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// UpperAlphabet holds the characters used for ticket numbers: digits and
	// upper-case ASCII letters.
	UpperAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// TicketNumberPrefix prefixes every ticket number.
	TicketNumberPrefix = "TKT"

	// TicketTokenLength is the number of random characters after the prefix.
	TicketTokenLength = 8

	lowerAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	requestIDLength = 16
)

// Generate returns length characters drawn uniformly from alphabet using
// crypto/rand.
func Generate(alphabet string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}
	if len(alphabet) < 2 {
		return "", fmt.Errorf("alphabet must contain at least two characters")
	}

	max := big.NewInt(int64(len(alphabet)))
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NewTicketNumber returns a candidate ticket number such as "TKT-7Q2M9XKD".
// Uniqueness is the caller's concern.
func NewTicketNumber() (string, error) {
	token, err := Generate(UpperAlphabet, TicketTokenLength)
	if err != nil {
		return "", err
	}
	return TicketNumberPrefix + "-" + token, nil
}

// IsTicketNumber reports whether s has the TKT-XXXXXXXX shape.
func IsTicketNumber(s string) bool {
	token, ok := strings.CutPrefix(s, TicketNumberPrefix+"-")
	if !ok || len(token) != TicketTokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		if !strings.ContainsRune(UpperAlphabet, rune(token[i])) {
			return false
		}
	}
	return true
}

// NewRequestID returns a random id for correlating request logs.
func NewRequestID() string {
	v, err := Generate(lowerAlphabet, requestIDLength)
	if err != nil {
		return "unknown"
	}
	return v
}
