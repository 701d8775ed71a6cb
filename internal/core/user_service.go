package core

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/auth"
	"github.com/studypilot/studypilot/internal/store"
)

// UserService handles account creation and credential checks.
type UserService struct {
	store *store.SQLiteStore
	log   *zap.Logger
}

func NewUserService(st *store.SQLiteStore, log *zap.Logger) *UserService {
	return &UserService{store: st, log: log}
}

// Signup creates an account and returns the user with a session token.
func (s *UserService) Signup(name, email, password string) (*store.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	existing, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: email %s", ErrAlreadyExists, email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(name, email, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("user created", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token. A
// wrong password and an unknown email both map to ErrUnauthorized so the
// response does not reveal which one was wrong.
func (s *UserService) Login(email, password string) (*store.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}
