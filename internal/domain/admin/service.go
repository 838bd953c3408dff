package admin

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

type Service struct {
	admins Repository
	tokens *auth.TokenService
}

func NewService(admins Repository, tokens *auth.TokenService) *Service {
	return &Service{admins: admins, tokens: tokens}
}

// Login verifies the username/password pair and issues a credential. A
// missing admin and a wrong password both come back as ErrUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.ErrUnauthorized
		}
		return "", fmt.Errorf("lookup admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", apperr.ErrUnauthorized
	}
	token, err := s.tokens.Issue(a.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Exists is the token subject resolver for the admin role.
func (s *Service) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
