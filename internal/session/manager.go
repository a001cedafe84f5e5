package session

import (
	"context"
	"log/slog"
	"os"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

// Credentials are the account login credentials.
type Credentials struct {
	Username string
	Password string
}

// Manager establishes or restores an authenticated session and persists it
// for reuse across runs.
type Manager struct {
	client ports.SocialClient
	path   string
	log    *slog.Logger
}

func NewManager(client ports.SocialClient, path string, log *slog.Logger) *Manager {
	return &Manager{client: client, path: path, log: log}
}

// Ensure restores a persisted session when it is still live, otherwise
// performs exactly one fresh login and persists the new session. Login
// failure is fatal for the run.
func (m *Manager) Ensure(ctx context.Context, creds Credentials) error {
	if _, err := os.Stat(m.path); err == nil {
		m.log.Info("found saved session, trying to reuse", "path", m.path)
		if err := m.client.LoadSettings(m.path); err != nil {
			m.log.Warn("could not load saved session", "err", err)
		} else if err := m.client.GetTimelineFeed(ctx); err == nil {
			m.log.Info("saved session is valid")
			return nil
		} else {
			m.log.Warn("saved session expired", "err", err)
		}
	}

	m.log.Info("performing fresh login", "username", creds.Username)
	if err := m.client.Login(ctx, creds.Username, creds.Password); err != nil {
		return &domain.AuthError{Err: err}
	}
	if err := m.client.DumpSettings(m.path); err != nil {
		return &domain.AuthError{Err: err}
	}

	m.log.Info("session saved", "path", m.path)
	return nil
}
