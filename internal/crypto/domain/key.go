package domain

import (
	"encoding/base64"
	"fmt"
)

// Key is raw symmetric key material.
type Key []byte

// Encode returns the printable form persisted next to asset and message records.
func (k Key) Encode() string {
	return base64.StdEncoding.EncodeToString(k)
}

// String keeps key material out of logs and fmt output.
func (k Key) String() string {
	return "[REDACTED]"
}

// DecodeKey parses the printable form produced by Encode.
func DecodeKey(encoded string) (Key, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	if len(raw) != KeySize {
		Zero(raw)
		return nil, ErrInvalidKeySize
	}
	return Key(raw), nil
}
