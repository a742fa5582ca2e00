package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes long")
	ErrPasswordCommon     = errors.New("password is too common")
	ErrPasswordWhitespace = errors.New("password must not start or end with whitespace")
	ErrPasswordRepeating  = errors.New("password cannot be a single repeated character")
)

// PasswordValidator validates passwords against the account policy.
type PasswordValidator struct {
	minLength       int
	commonPasswords map[string]bool
}

// NewPasswordValidator creates a validator with the default policy.
func NewPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		minLength: 6,
		commonPasswords: map[string]bool{
			"password": true,
			"123456":   true,
			"1234567":  true,
			"12345678": true,
			"qwerty":   true,
			"admin":    true,
			"welcome":  true,
			"abc123":   true,
		},
	}
}

// ValidatePassword checks password against the policy.
func (pv *PasswordValidator) ValidatePassword(password string) error {
	if len(password) < pv.minLength {
		return ErrPasswordTooShort
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if strings.TrimSpace(password) != password {
		return ErrPasswordWhitespace
	}

	first := []rune(password)[0]
	repeated := true
	for _, char := range password {
		if char != first {
			repeated = false
			break
		}
	}
	if repeated {
		return ErrPasswordRepeating
	}

	if pv.commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
