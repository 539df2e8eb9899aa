package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is a variable so tests can drop to bcrypt.MinCost.
var hashCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash. A mismatch is not an
// error; a corrupt hash is.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// SetHashCost changes the bcrypt cost used by HashPassword. Intended for tests.
func SetHashCost(cost int) (restore func()) {
	prev := hashCost
	hashCost = cost
	return func() { hashCost = prev }
}
