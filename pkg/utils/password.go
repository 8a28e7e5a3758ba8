package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the work factor existing account hashes were created with.
const PasswordCost = 10

// HashPassword must be called on every path that sets or changes a password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
