package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestConfig_JWTConfig(t *testing.T) {
	tests := []struct {
		name    string
		auth    AuthConfig
		wantErr string
	}{
		{name: "valid", auth: AuthConfig{JWTSecret: "secret", JWTExpirationHours: 12}},
		{name: "missing secret", auth: AuthConfig{JWTExpirationHours: 24}, wantErr: "jwtSecret"},
		{name: "zero lifetime", auth: AuthConfig{JWTSecret: "secret"}, wantErr: "at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwt, err := (&Config{Auth: tt.auth}).JWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "secret", jwt.Secret)
			assert.Equal(t, 12*time.Hour, jwt.Expiration())
		})
	}
}

func TestConfig_PasswordConfig(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "lower bound", cost: 10},
		{name: "upper bound", cost: 14},
		{name: "too cheap", cost: 4, wantErr: true},
		{name: "too expensive", cost: 15, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pw, err := (&Config{Auth: AuthConfig{BcryptCost: tt.cost, PasswordPepper: "pep"}}).PasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "pep", pw.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	pw := &PasswordConfig{BcryptCost: bcrypt.MinCost}

	hash, err := pw.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, pw.VerifyPassword("correct horse", hash))
	assert.False(t, pw.VerifyPassword("wrong horse", hash))
	assert.False(t, pw.VerifyPassword("correct horse", "not-a-hash"))

	other, err := pw.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts differ")
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "pepper"}
	plain := &PasswordConfig{BcryptCost: bcrypt.MinCost}

	hash, err := peppered.HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, peppered.VerifyPassword("secret123", hash))
	assert.False(t, plain.VerifyPassword("secret123", hash))
	assert.False(t, (&PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "other"}).VerifyPassword("secret123", hash))
}

func TestPasswordConfig_NeedsRehash(t *testing.T) {
	cheap := &PasswordConfig{BcryptCost: bcrypt.MinCost}
	hash, err := cheap.HashPassword("secret123")
	require.NoError(t, err)

	assert.False(t, cheap.NeedsRehash(hash))
	assert.True(t, (&PasswordConfig{BcryptCost: bcrypt.MinCost + 1}).NeedsRehash(hash))
	assert.False(t, cheap.NeedsRehash("garbage"))
}
