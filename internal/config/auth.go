package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	minBcryptCost = 10
	maxBcryptCost = 14
)

// JWTConfig holds the signing secret and lifetime of session tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// Expiration is the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) validate() error {
	if c.Secret == "" {
		return errors.New("config error: auth.jwtSecret (JWT_SECRET) is required")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("config error: auth.jwtExpirationHours must be at least 1, got %d", c.ExpirationHours)
	}
	return nil
}

// PasswordConfig hashes and verifies account passwords with bcrypt.
// A non-empty Pepper is appended to every password before hashing.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

func (c *PasswordConfig) validate() error {
	if c.BcryptCost < minBcryptCost || c.BcryptCost > maxBcryptCost {
		return fmt.Errorf("config error: auth.bcryptCost must be between %d and %d, got %d",
			minBcryptCost, maxBcryptCost, c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword returns the bcrypt hash of pw.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// NeedsRehash reports whether storedHash was produced with a cost other than
// the configured one. Unreadable hashes never need a rehash.
func (c *PasswordConfig) NeedsRehash(storedHash string) bool {
	cost, err := bcrypt.Cost([]byte(storedHash))
	if err != nil {
		return false
	}
	return cost != c.BcryptCost
}

// JWTConfig returns the validated token settings
func (c *Config) JWTConfig() (*JWTConfig, error) {
	jwt := &JWTConfig{
		Secret:          c.Auth.JWTSecret,
		ExpirationHours: c.Auth.JWTExpirationHours,
	}
	if err := jwt.validate(); err != nil {
		return nil, err
	}
	return jwt, nil
}

// PasswordConfig returns the validated password hashing settings
func (c *Config) PasswordConfig() (*PasswordConfig, error) {
	pw := &PasswordConfig{
		BcryptCost: c.Auth.BcryptCost,
		Pepper:     c.Auth.PasswordPepper,
	}
	if err := pw.validate(); err != nil {
		return nil, err
	}
	return pw, nil
}
