// Package services contains the application services of the client: session
// lifecycle, task collection synchronization, and the assistant conversation
// bridge. All services assume single-goroutine, event-driven use; they are
// not safe for concurrent access.
package services

import (
	"context"
	"time"

	"taskpilot/internal/api"
	"taskpilot/internal/logging"
	"taskpilot/internal/models"
	"taskpilot/internal/repositories/credentials"
)

// State is the session lifecycle state.
type State string

const (
	StateInitializing  State = "initializing"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// timeNow is a test seam for the mirror expiry stamp.
var timeNow = time.Now

// SessionService owns the authenticated identity and is the only writer of
// the token in the credential store and on the API client.
//
// State machine:
//
//	Initializing --(no stored token)----------------> Anonymous
//	Initializing --(stored token, /auth/me ok)------> Authenticated
//	Initializing --(stored token, rejected/error)---> Anonymous (token purged)
//	Anonymous    --(login/signup ok)----------------> Authenticated
//	Authenticated --(logout, unauthorized observed)-> Anonymous
//
// Identity is replaced wholesale from server responses and never patched.
// Reset hooks registered via OnReset fire on every transition into or out of
// Authenticated, so session-scoped caches (the task collection) are never
// carried across identities.
type SessionService struct {
	client       api.Client
	creds        credentials.Repository
	log          logging.Logger
	mirrorMaxAge time.Duration

	state      State
	user       *models.User
	resetHooks []func()
}

func NewSessionService(client api.Client, creds credentials.Repository, log logging.Logger, mirrorMaxAge time.Duration) *SessionService {
	return &SessionService{
		client:       client,
		creds:        creds,
		log:          log,
		mirrorMaxAge: mirrorMaxAge,
		state:        StateInitializing,
	}
}

func (s *SessionService) State() State { return s.state }

// User returns the current identity, nil when unauthenticated.
func (s *SessionService) User() *models.User { return s.user }

// OnReset registers a hook fired whenever session-scoped state must be
// discarded (login, logout, unauthorized teardown).
func (s *SessionService) OnReset(fn func()) {
	s.resetHooks = append(s.resetHooks, fn)
}

func (s *SessionService) fireReset() {
	for _, fn := range s.resetHooks {
		fn()
	}
}

// Restore attempts to revive a persisted session at startup. A stored token
// is validated against /auth/me; on rejection or transport failure the stale
// token is purged and the session settles Anonymous. Restore never fails the
// application: it only reports credential-store errors.
func (s *SessionService) Restore(ctx context.Context) error {
	token, err := s.creds.Get(ctx, credentials.KeyAuthToken)
	if err != nil {
		s.state = StateAnonymous
		return err
	}
	if token == nil {
		s.state = StateAnonymous
		return nil
	}

	s.client.SetToken(string(token))
	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "stored session rejected, purging token", "error", err)
		s.purgeToken(ctx)
		s.state = StateAnonymous
		return nil
	}

	s.user = user
	s.state = StateAuthenticated
	s.log.Info(ctx, "session restored", "email", user.Email)
	return nil
}

// Login authenticates with the server and establishes the session. On failure
// the error propagates and any pre-existing session state is left untouched.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

// Signup registers a new account and establishes the session, mirroring
// Login's semantics.
func (s *SessionService) Signup(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	resp, err := s.client.Register(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

// establish persists the token to all three locations (credential store,
// expiry mirror, API client), replaces the identity, and discards any
// session-scoped caches from a previous identity.
func (s *SessionService) establish(ctx context.Context, resp *api.AuthResponse) error {
	s.client.SetToken(resp.AccessToken)

	user := resp.User
	s.user = &user
	s.state = StateAuthenticated
	s.fireReset()

	if err := s.creds.Set(ctx, credentials.KeyAuthToken, []byte(resp.AccessToken)); err != nil {
		return err
	}
	expires := timeNow().Add(s.mirrorMaxAge).UTC().Format(time.RFC3339)
	if err := s.creds.Set(ctx, credentials.KeyAuthTokenExpires, []byte(expires)); err != nil {
		return err
	}

	s.log.Info(ctx, "session established", "email", user.Email)
	return nil
}

// Logout tears the session down and returns to Anonymous. The purge always
// completes; the first credential-store error is reported.
func (s *SessionService) Logout(ctx context.Context) error {
	s.log.Info(ctx, "logging out")
	return s.teardown(ctx)
}

// HandleUnauthorized is the reconciliation path for a stale credential
// observed on any API call: the session is torn down exactly as on logout so
// the client never keeps an authenticated-looking state the server no longer
// honors.
func (s *SessionService) HandleUnauthorized(ctx context.Context) error {
	if s.state != StateAuthenticated {
		return nil
	}
	s.log.Warn(ctx, "credential rejected by server, ending session")
	return s.teardown(ctx)
}

func (s *SessionService) teardown(ctx context.Context) error {
	err := s.purgeToken(ctx)
	s.user = nil
	s.state = StateAnonymous
	s.fireReset()
	return err
}

func (s *SessionService) purgeToken(ctx context.Context) error {
	s.client.ClearToken()
	err := s.creds.Delete(ctx, credentials.KeyAuthToken)
	if e := s.creds.Delete(ctx, credentials.KeyAuthTokenExpires); err == nil {
		err = e
	}
	return err
}

func validateCredentials(email, password string) error {
	if email == "" {
		return NewValidationError("email", "must not be empty")
	}
	if password == "" {
		return NewValidationError("password", "must not be empty")
	}
	return nil
}
