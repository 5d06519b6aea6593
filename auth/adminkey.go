package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadAdminKey = errors.New("bad admin key")

// HashAdminKey returns the bcrypt hash to put in ADMIN_KEY_HASH
func HashAdminKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("admin key cannot be empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(b), err
}

// CheckAdminKey compares key with a hash from HashAdminKey
func CheckAdminKey(hash, key string) error {
	if hash == "" || key == "" {
		return ErrBadAdminKey
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
		return ErrBadAdminKey
	}
	return nil
}
