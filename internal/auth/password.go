package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its stored hash. Rows migrated
// from the previous system carry a bare SHA-256 hex digest instead of a
// bcrypt hash; those are accepted until the next password change rewrites
// them.
func ComparePassword(hashed, plain string) error {
	if isLegacyDigest(hashed) {
		sum := sha256.Sum256([]byte(plain))
		if subtle.ConstantTimeCompare([]byte(strings.ToLower(hashed)), []byte(hex.EncodeToString(sum[:]))) == 1 {
			return nil
		}
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

func isLegacyDigest(hashed string) bool {
	if len(hashed) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hashed)
	return err == nil
}

const specialChars = `!@#$%^&*()_+-=[]{}|;:,.<>?`

// commonPasswords is the blacklist applied on top of the character rules.
var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"admin123":  {},
	"letmein1":  {},
	"welcome1":  {},
}

// ValidatePasswordStrength enforces the password policy on every
// password-setting operation: minimum length, upper, lower, digit, special
// character, and not a blacklisted common password.
func ValidatePasswordStrength(password string, minLength int) error {
	if minLength <= 0 {
		minLength = 8
	}
	if len(password) < minLength {
		return util.NewValidationError("password too short", map[string]any{"min_length": minLength})
	}
	if _, banned := commonPasswords[strings.ToLower(password)]; banned {
		return util.NewValidationError("password too common", nil)
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return util.NewValidationError(
			"password must contain upper, lower, digit and special characters", nil)
	}
	return nil
}
