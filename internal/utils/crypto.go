package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// GenerateAccountNumber returns a new display account number in the
// SCBPK-XXXXXXXXXX format. Uniqueness is enforced by the store's unique
// index, not by this generator.
func GenerateAccountNumber() string {
	return "SCBPK-" + randomDigits(10)
}

// GenerateCardNumber returns a simulated card number.
// Format: 1234-5678-9012-XXXX.
func GenerateCardNumber() string {
	return "1234-5678-9012-" + randomDigits(4)
}

// GenerateTransactionID returns a globally unique transaction reference.
// The TXN prefix is kept for display; the UUID part guarantees
// uniqueness without relying on timestamp collision-avoidance.
func GenerateTransactionID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// GenerateOTP returns a 6-digit one-time code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic("failed to read random source: " + err.Error())
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String()
}
