package utils

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

var errEmptyHash = errors.New("empty password hash")

// HashPassword returns a PHC-encoded argon2id hash.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, errEmptyHash
	}
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
