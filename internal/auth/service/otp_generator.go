package service

import (
	"crypto/rand"
	"math/big"

	apperrors "github.com/allisson/legacyvault/internal/errors"
)

var ten = big.NewInt(10)

type otpGenerator struct {
	length int
}

// NewOTPGenerator creates a generator of length-digit codes. Leading zeros are kept.
func NewOTPGenerator(length int) OTPGenerator {
	if length <= 0 {
		length = 6
	}
	return &otpGenerator{length: length}
}

func (g *otpGenerator) Generate() (string, error) {
	code := make([]byte, g.length)
	for i := range code {
		digit, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to generate otp")
		}
		code[i] = byte('0' + digit.Int64())
	}
	return string(code), nil
}
