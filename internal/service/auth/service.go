package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup, login and bearer-token lookup.
type Service struct {
	users       userrepo.Repository
	tokens      *tokenManager
	logger      *log.Logger
	accessTTL   time.Duration
	passwordMin int
}

func New(users userrepo.Repository, tokens tokenrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(tokens),
		logger:      logger,
		accessTTL:   48 * time.Hour,
		passwordMin: 8,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("valid email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("auth: signup user_id=%s", u.ID)
	return u, nil
}

// Login validates credentials and returns the user with a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, s.accessTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	s.logger.Printf("auth: login user_id=%s", u.ID)
	return u, access, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	var hasLetter, hasDigit bool
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least 1 letter and 1 number")
	}
	return nil
}
