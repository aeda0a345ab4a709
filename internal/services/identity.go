// Package services contains the client-side state-management layer: the
// identity resolver, the subscription reconciler, the search session, and
// the per-flight detail session. All state owned here is guarded for use
// across asynchronous request completions; superseded results are detected
// by an epoch check and discarded, never applied.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/localstate"
	"github.com/farewatch/farewatch/internal/logging"
	"github.com/farewatch/farewatch/internal/models"
)

// IdentityState is the resolver's per-email state machine.
type IdentityState int

const (
	// StateUnchecked means the current email has not been resolved yet.
	StateUnchecked IdentityState = iota
	// StateChecking means a resolution request is outstanding.
	StateChecking
	// StateKnown means the backend has a record for the email.
	StateKnown
	// StateUnknown means the backend has no record for the email.
	StateUnknown
)

func (s IdentityState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateKnown:
		return "known"
	case StateUnknown:
		return "unknown"
	default:
		return "unchecked"
	}
}

// ValidEmail applies the client's syntactic email check: the address must
// contain both '@' and '.'.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// IdentitySnapshot is a consistent read of the resolver's state.
type IdentitySnapshot struct {
	Email                string
	State                IdentityState
	NotificationsEnabled bool
}

// IdentityService owns the "is this email known to the backend" state.
//
// Changing the email resets the state machine to Unchecked, bumps the
// staleness epoch and fires the registered reset hooks (the subscription
// reconciler clears its collection through one) before any new resolution
// can complete.
type IdentityService struct {
	client api.Client
	store  localstate.Repository
	log    logging.Logger

	mu            sync.Mutex
	email         string
	epoch         uint64
	state         IdentityState
	notifications bool
	resetHooks    []func()
}

func NewIdentityService(client api.Client, store localstate.Repository, log logging.Logger) *IdentityService {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &IdentityService{client: client, store: store, log: log}
}

// OnReset registers a hook fired whenever the email changes. Hooks run
// outside the service lock.
func (s *IdentityService) OnReset(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetHooks = append(s.resetHooks, hook)
}

// Snapshot returns a consistent view of the current identity.
func (s *IdentityService) Snapshot() IdentitySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IdentitySnapshot{Email: s.email, State: s.state, NotificationsEnabled: s.notifications}
}

// Email returns the current email value.
func (s *IdentityService) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// State returns the current resolution state.
func (s *IdentityService) State() IdentityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetEmail changes the active email. A changed value resets the state to
// Unchecked, invalidates any outstanding resolution, fires the reset hooks
// and persists the email to local state.
func (s *IdentityService) SetEmail(ctx context.Context, email string) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	if email == s.email {
		s.mu.Unlock()
		return
	}
	s.email = email
	s.epoch++
	s.state = StateUnchecked
	s.notifications = false
	hooks := append([]func(){}, s.resetHooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}

	if s.store != nil {
		if err := s.store.Set(ctx, localstate.KeyEmail, email); err != nil {
			s.log.Warn(ctx, "failed to persist email", "err", err)
		}
	}
}

// Resolve settles the state machine for the current email. An empty email
// settles Unknown without a network call. A resolution that completes after
// the email changed is discarded.
func (s *IdentityService) Resolve(ctx context.Context) error {
	s.mu.Lock()
	email := s.email
	epoch := s.epoch
	if email == "" {
		s.state = StateUnknown
		s.mu.Unlock()
		return nil
	}
	s.state = StateChecking
	s.mu.Unlock()

	user, err := s.client.User(ctx, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug(ctx, "discarding stale identity resolution", "email", email)
		return nil
	}
	if err != nil {
		s.state = StateUnchecked
		return fmt.Errorf("resolving identity: %w", err)
	}
	if user == nil {
		s.state = StateUnknown
		s.notifications = false
		return nil
	}
	s.state = StateKnown
	s.notifications = user.EnableNotificationsSetting
	return nil
}

// Save registers the current email with the backend. Only valid from
// Unknown. A conflict response means the identity was created concurrently;
// that is a success path and the existing record is re-fetched.
func (s *IdentityService) Save(ctx context.Context, notificationsEnabled bool) error {
	s.mu.Lock()
	if s.state != StateUnknown {
		state := s.state
		s.mu.Unlock()
		if state == StateKnown {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("identity must be resolved before saving (state %s)", state)
	}
	email := s.email
	epoch := s.epoch
	s.mu.Unlock()

	user, err := s.client.CreateUser(ctx, models.User{
		Email:                      email,
		EnableNotificationsSetting: notificationsEnabled,
	})
	if err != nil {
		if api.StatusOf(err) != http.StatusConflict {
			return fmt.Errorf("saving identity: %w", err)
		}
		// Someone won the race; the registration exists, fetch it.
		s.log.Info(ctx, "email already registered, reusing existing record", "email", email)
		existing, ferr := s.client.User(ctx, email)
		if ferr != nil {
			return fmt.Errorf("re-fetching identity after conflict: %w", ferr)
		}
		if existing == nil {
			return fmt.Errorf("identity conflict for %s but record not found", email)
		}
		user = existing
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug(ctx, "discarding stale identity save", "email", email)
		return nil
	}
	s.state = StateKnown
	s.notifications = user.EnableNotificationsSetting
	return nil
}

// SetNotifications flips the notification setting for a Known identity.
// The local flag is updated optimistically; the backend sync runs in the
// background and a failure is logged, not reverted. The next Resolve
// reconciles.
func (s *IdentityService) SetNotifications(ctx context.Context, enabled bool) {
	s.mu.Lock()
	if s.state != StateKnown || s.notifications == enabled {
		s.mu.Unlock()
		return
	}
	s.notifications = enabled
	email := s.email
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.client.UpdateUser(bg, email, enabled); err != nil {
			s.log.Warn(bg, "failed to sync notification setting", "email", email, "err", err)
		}
	}()
}
