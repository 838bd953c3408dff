package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectResolver reports whether a token subject (email or username)
// currently exists under a given role's repository.
type SubjectResolver func(ctx context.Context, subject string) (bool, error)

// TokenService issues and validates HS256-signed credentials. A credential
// carries only its subject; validation always re-resolves that subject
// against the live repository for the expected role, so a deleted account
// invalidates its outstanding tokens immediately.
type TokenService struct {
	secret    []byte
	ttl       time.Duration
	resolvers map[Role]SubjectResolver
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret:    secret,
		ttl:       ttl,
		resolvers: make(map[Role]SubjectResolver),
	}
}

// RegisterResolver binds a role to its subject lookup. Called once per role
// during wiring.
func (s *TokenService) RegisterResolver(role Role, fn SubjectResolver) {
	s.resolvers[role] = fn
}

// Issue signs a credential for the subject with the configured expiry.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Subject extracts the subject from a credential. Any parse, signature or
// expiry failure yields the empty string; callers treat that as invalid.
func (s *TokenService) Subject(tokenStr string) string {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}

// Validate reports whether the credential is structurally valid, unexpired,
// and its subject still resolves under the expected role. Resolver errors
// count as invalid rather than surfacing.
func (s *TokenService) Validate(ctx context.Context, tokenStr string, role Role) bool {
	subject := s.Subject(tokenStr)
	if subject == "" {
		return false
	}
	resolve, ok := s.resolvers[role]
	if !ok {
		return false
	}
	exists, err := resolve(ctx, subject)
	if err != nil {
		return false
	}
	return exists
}
