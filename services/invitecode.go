package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// InviteAlphabet omits the letter O and the digit 0.
const InviteAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"

const InviteCodeLength = 6

func GenerateInviteCode() (string, error) {
	var b strings.Builder
	b.Grow(InviteCodeLength)
	max := big.NewInt(int64(len(InviteAlphabet)))
	for i := 0; i < InviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(InviteAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
