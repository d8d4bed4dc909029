package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

const accessKind = "access"

type tokenManager struct {
	repo tokenrepo.Repository
	now  func() time.Time
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo, now: time.Now}
}

func (m *tokenManager) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	expiresAt := m.now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			Kind:      accessKind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Validate returns the owning user ID. Expired tokens are deleted.
func (m *tokenManager) Validate(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return "", false
	}
	if meta.Kind != accessKind || meta.UserID == "" {
		return "", false
	}
	if m.now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return "", false
	}
	return meta.UserID, true
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
