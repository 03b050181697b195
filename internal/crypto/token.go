package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const tokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ResetTokenLength is the length of password reset tokens.
const ResetTokenLength = 32

var ErrTokenLength = errors.New("token length must be positive")

// RandomToken returns a random alphanumeric string drawn with crypto/rand.
func RandomToken(length int) (string, error) {
	if length <= 0 {
		return "", ErrTokenLength
	}

	max := big.NewInt(int64(len(tokenChars)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tokenChars[n.Int64()]
	}
	return string(out), nil
}
