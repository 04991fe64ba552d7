package hmac

import (
	cryptoHMAC "crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// MinKeyLength is the shortest key New accepts
const MinKeyLength = 16

// ErrShortKey is returned by New for keys shorter than MinKeyLength
var ErrShortKey = errors.New("hmac key is too short")

// HMAC signs and verifies messages, used for the download links of rendered strips
type HMAC struct {
	Key []byte
}

// New returns an HMAC for key
func New(key string) (*HMAC, error) {
	if len(key) < MinKeyLength {
		return nil, ErrShortKey
	}
	return &HMAC{Key: []byte(key)}, nil
}

// Create returns the SHA-256 HMAC of message, encoded as urlsafe base64 without padding
func (h *HMAC) Create(message string) (string, error) {
	mac := cryptoHMAC.New(sha256.New, h.Key)

	if _, err := mac.Write([]byte(message)); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Validate reports whether mac was created from message with the same key
func (h *HMAC) Validate(message, mac string) (bool, error) {
	expectedMAC, err := h.Create(message)
	if err != nil {
		return false, err
	}

	return cryptoHMAC.Equal([]byte(mac), []byte(expectedMAC)), nil
}
