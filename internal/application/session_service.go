package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/logging"
	"github.com/bnema/usahome-cli/internal/ports"
)

var ErrIdentityRequired = errors.New("identity required: pass --identity or run `usah login`")

type SessionService struct {
	auth     ports.Authenticator
	sessions ports.SessionRepository
	clock    ports.Clock
	log      logging.Logger
}

func NewSessionService(auth ports.Authenticator, sessions ports.SessionRepository, clock ports.Clock, log logging.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logging.Discard()
	}

	return &SessionService{auth: auth, sessions: sessions, clock: clock, log: log.With("component", "session")}
}

func (s *SessionService) Login(ctx context.Context, rawIdentity, password string) (domain.Session, error) {
	identity, err := domain.ParseIdentity(rawIdentity)
	if err != nil {
		return domain.Session{}, err
	}
	if strings.TrimSpace(password) == "" {
		return domain.Session{}, fmt.Errorf("%w: password is required", domain.ErrInvalidCredentials)
	}

	if s.auth == nil {
		return domain.Session{}, fmt.Errorf("%w: set api.base_url to log in", domain.ErrRemoteUnavailable)
	}

	session, err := s.auth.Login(ctx, identity, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	if session.Identity == "" {
		session.Identity = identity
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.clock.Now().UTC()
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// Logout clears the local session even when the backend call fails.
func (s *SessionService) Logout(ctx context.Context) error {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	if s.auth != nil && session.Authenticated() {
		if err := s.auth.Logout(ctx, session); err != nil {
			s.log.Warn(ctx, "backend logout failed", "identity", session.Identity, "err", err)
		}
	}

	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionService) Current(ctx context.Context) (domain.Session, error) {
	return s.sessions.Current(ctx)
}

// ResolveIdentity prefers an explicit identity and falls back to the logged
// in session.
func (s *SessionService) ResolveIdentity(ctx context.Context, raw string) (domain.Identity, error) {
	if strings.TrimSpace(raw) != "" {
		return domain.ParseIdentity(raw)
	}

	session, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", ErrIdentityRequired
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	if session.Identity == "" {
		return "", ErrIdentityRequired
	}

	return session.Identity, nil
}
