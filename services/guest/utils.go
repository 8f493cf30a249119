package guest

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"hotelops/models"
)

const (
	passwordLength   = 12
	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

// DeriveUsername lower-cases first+last name and keeps ASCII letters and
// digits. If the name yields nothing, the email local part is used.
func DeriveUsername(identity models.GuestIdentity) string {
	if name := alphanumeric(identity.FirstName + identity.LastName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(identity.Email, "@")
	return alphanumeric(local)
}

func alphanumeric(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TemporaryPassword returns a random password without look-alike characters.
func TemporaryPassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, passwordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
