// Package services contains server-side business logic. This file implements
// UserService, which handles account registration, credential checks, and
// profile reads and edits.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

// UserService provides account operations:
// - Register: create accounts, rejecting duplicate emails
// - Login / Logout: credential and presence checks
// - Profile / UpdateProfileField: credential-gated profile access
// - DeleteAccount: credential-gated removal
type UserService struct {
	users users.Repository
}

// NewUserService constructs a UserService over the given repository.
func NewUserService(repo users.Repository) *UserService {
	return &UserService{users: repo}
}

// Register creates a new account. A duplicate email yields ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// Login verifies the email/password pair. A mismatch or an unknown email
// yields ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) error {
	if _, err := s.users.Authenticate(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidCredentials
		}
		return fmt.Errorf("error verifying credentials: %w", err)
	}
	return nil
}

// Logout checks the account exists. An unknown email yields ErrNotFound.
func (s *UserService) Logout(ctx context.Context, email string) error {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error looking up user: %w", err)
	}
	return nil
}

// Profile returns the account matching the credentials, with the password
// blanked. A mismatch yields ErrInvalidCredentials.
func (s *UserService) Profile(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	u.Password = ""
	return u, nil
}

// UpdateProfileField sets one editable profile field after verifying the
// credentials. Unknown fields yield ErrInvalidField, a credential mismatch
// ErrInvalidCredentials.
func (s *UserService) UpdateProfileField(ctx context.Context, email, password, field, value string) error {
	err := s.users.UpdateField(ctx, email, password, field, value)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidField):
			return err
		case errors.Is(err, common.ErrNotFound):
			return common.ErrInvalidCredentials
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// DeleteAccount removes the account matching the credentials. No match
// yields ErrNotFound.
func (s *UserService) DeleteAccount(ctx context.Context, email, password string) error {
	if err := s.users.Delete(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
