package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("Str0ng!Pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hashed)

	assert.NoError(t, ComparePassword(hashed, "Str0ng!Pass"))
	assert.Error(t, ComparePassword(hashed, "wrong"))
}

func TestComparePasswordLegacyDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("migrated-secret"))
	digest := hex.EncodeToString(sum[:])

	assert.NoError(t, ComparePassword(digest, "migrated-secret"))
	assert.Error(t, ComparePassword(digest, "other"))

	// Migrated rows may carry the digest uppercased.
	upper := make([]byte, len(digest))
	for i := range digest {
		c := digest[i]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	assert.NoError(t, ComparePassword(string(upper), "migrated-secret"))
}

func TestIsLegacyDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("x"))
	assert.True(t, isLegacyDigest(hex.EncodeToString(sum[:])))
	assert.False(t, isLegacyDigest("$2a$10$abcdefghijklmnopqrstuv"))
	assert.False(t, isLegacyDigest("deadbeef"))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng!Pass", false},
		{"too short", "S1!a", true},
		{"missing upper", "str0ng!pass", true},
		{"missing lower", "STR0NG!PASS", true},
		{"missing digit", "Strong!Pass", true},
		{"missing special", "Str0ngPass1", true},
		{"blacklisted", "Password1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password, 8)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePasswordStrengthMinLength(t *testing.T) {
	assert.Error(t, ValidatePasswordStrength("Sh0rt!Pw9", 12))
	assert.NoError(t, ValidatePasswordStrength("Long3r!Passw0rd", 12))

	// Non-positive policy falls back to eight.
	assert.Error(t, ValidatePasswordStrength("S1!pas", 0))
}
