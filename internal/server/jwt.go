package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
)

const tokenIssuer = "resume-tailor"

// ErrInvalidToken wraps every token rejection.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the session token claims. Subject repeats the user ID.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// GetUserID implements middleware.UserIDGetter.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// JWTService issues and checks HS256 session tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTService creates a JWTService from validated settings.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.Expiration(),
		now:    time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Expiration is the token lifetime, also used as the session cookie max age.
func (s *JWTService) Expiration() time.Duration {
	return s.ttl
}

// GenerateToken signs a token for userID.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, issuer and lifetime of raw.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: malformed", ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidToken)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}
	return claims, nil
}

// AsTokenValidator adapts the service to middleware.TokenValidator.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return tokenValidatorFunc(func(raw string) (middleware.UserIDGetter, error) {
		claims, err := s.ValidateToken(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

type tokenValidatorFunc func(string) (middleware.UserIDGetter, error)

func (f tokenValidatorFunc) ValidateToken(raw string) (middleware.UserIDGetter, error) {
	return f(raw)
}
