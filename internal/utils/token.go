package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// TokenLength is the number of digits in confirmation and reset tokens
const TokenLength = 6

// GenerateToken returns a random numeric code of TokenLength digits.
// Leading zeros are kept.
func GenerateToken() (string, error) {
	return generateVerificationCode(TokenLength)
}

func generateVerificationCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
