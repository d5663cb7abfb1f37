package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/types"
)

// UserStore persists accounts. *db.DB satisfies it.
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// UserService registers accounts and checks their credentials.
type UserService struct {
	store     UserStore
	passwords *config.PasswordConfig
}

// NewUserService creates a UserService backed by store.
func NewUserService(store UserStore, passwords *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwords: passwords}
}

// publicUser strips the password hash from an account row.
func publicUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		PasswordSet: u.PasswordSet,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Emails are stored lowercased.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := normalizeEmail(req.Email)
	taken, err := s.store.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	userID, err := s.store.CreateUser(ctx, strings.TrimSpace(req.Name), email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, fmt.Errorf("set password: %w", err)
	}
	return s.GetUser(ctx, userID)
}

// Login checks the credentials and returns the account. Unknown emails and
// wrong passwords produce the same error. Hashes made with an outdated bcrypt
// cost are replaced on success.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if u == nil || !u.PasswordSet || !s.passwords.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if s.passwords.NeedsRehash(u.PasswordHash) {
		if hash, err := s.passwords.HashPassword(req.Password); err == nil {
			// login still succeeds if the upgrade cannot be stored
			_ = s.store.UpdatePassword(ctx, u.ID, hash)
		}
	}
	return publicUser(u), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return &ErrUserNotFound{UserID: userID}
	}
	if !s.passwords.VerifyPassword(currentPassword, u.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetUser returns the public view of an account.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return publicUser(u), nil
}
