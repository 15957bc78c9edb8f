package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/store"
	"booking-scheduler-backend/internal/validate"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Session is the result of a successful register or login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Host      *model.Host `json:"host"`
}

// Service registers and authenticates hosts.
type Service struct {
	store  store.Store
	tokens *Tokens
	cost   int
}

// NewService creates an auth service. A cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func NewService(st store.Store, tokens *Tokens, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: st, tokens: tokens, cost: cost}
}

// Tokens returns the token issuer used by the service.
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// Register creates a host account and signs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name, email, err := validate.Registration(name, email, password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	h := &model.Host{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.store.CreateHost(ctx, h); err != nil {
		return nil, err
	}
	return s.session(h)
}

// Login checks an email and password pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	h, err := s.store.GetHostByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(h)
}

// Me returns the host a verified token belongs to.
func (s *Service) Me(ctx context.Context, hostID int64) (*model.Host, error) {
	h, err := s.store.GetHost(ctx, hostID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return h, err
}

func (s *Service) session(h *model.Host) (*Session, error) {
	token, expires, err := s.tokens.Issue(h.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, Host: h}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
