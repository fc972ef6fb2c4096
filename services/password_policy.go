package services

import (
	"fmt"
	"strings"
	"unicode"
)

// Password requirements
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// PasswordPolicyError describes why a password was rejected
type PasswordPolicyError struct {
	Reason string
}

func (e *PasswordPolicyError) Error() string {
	return e.Reason
}

// ValidatePassword checks a new password:
// - Between 8 and 72 bytes
// - Not made only of digits
// - Not the same as the username
func ValidatePassword(username, password string) error {
	if len(password) < MinPasswordLength {
		return &PasswordPolicyError{Reason: fmt.Sprintf("password must be at least %d characters long", MinPasswordLength)}
	}
	if len(password) > MaxPasswordLength {
		return &PasswordPolicyError{Reason: fmt.Sprintf("password must be at most %d bytes long", MaxPasswordLength)}
	}

	onlyDigits := true
	for _, char := range password {
		if !unicode.IsDigit(char) {
			onlyDigits = false
			break
		}
	}
	if onlyDigits {
		return &PasswordPolicyError{Reason: "password must not be entirely numeric"}
	}

	if username != "" && strings.EqualFold(strings.TrimSpace(username), password) {
		return &PasswordPolicyError{Reason: "password must not match the username"}
	}

	return nil
}
