package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DigitCodeGenerator produces numeric one-time codes for the email login
// step. Codes are zero-padded so a leading zero never shortens them.
type DigitCodeGenerator struct {
	Digits int
}

func (g DigitCodeGenerator) NewCode() (string, error) {
	digits := g.Digits
	if digits <= 0 {
		digits = 6
	}
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("otp: entropy read failed: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
