package password

import (
	"golang.org/x/crypto/bcrypt"

	"storebot/internal/pkg/errs"
)

func Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(err, "failed to hash password")
	}
	return string(b), nil
}

// Verify reports whether plain matches the bcrypt hash.
func Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
