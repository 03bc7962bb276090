// Package session holds the client's authentication state: who is signed
// in, whether an auth operation is in flight and the last user-facing error.
// A Store publishes a Snapshot to its subscribers on every transition.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/zerobalance/internal/client/client"
	"github.com/dmitrijs2005/zerobalance/internal/client/models"
	"github.com/dmitrijs2005/zerobalance/internal/client/services"
	"github.com/dmitrijs2005/zerobalance/internal/logging"
)

// User-facing messages.
const (
	MsgSessionExpired = "Session expired. Please log in again."
	MsgLoginFailed    = "Failed to login. Please try again."
	MsgSignupFailed   = "Failed to sign up. Please try again."
)

type State int

const (
	// Unresolved is the state before Init.
	Unresolved State = iota
	// Resolving means an auth operation is in flight.
	Resolving
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the session. User is nil unless State is
// Authenticated (or Resolving from Authenticated). An empty LastError means
// there is no error.
type Snapshot struct {
	State     State
	User      *models.User
	Loading   bool
	LastError string
}

func (s Snapshot) Authenticated() bool {
	return s.State == Authenticated && s.User != nil
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store owns the single session of a running client. It is safe for
// concurrent use. Loading is advisory: overlapping Login or Signup calls are
// not rejected and the last one to finish wins.
type Store struct {
	auth services.AuthService
	log  logging.Logger

	mu     sync.Mutex
	snap   Snapshot
	subs   []subscriber
	nextID int
}

func NewStore(auth services.AuthService, log logging.Logger) *Store {
	return &Store{
		auth: auth,
		log:  logging.OrNop(log).With("component", "session"),
	}
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to receive every subsequent Snapshot. Subscribers
// are called in registration order, outside the store's lock, from the
// goroutine that caused the transition. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// update applies fn to the session and publishes the result.
func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	snap := s.snap
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// Init restores a persisted session. Without a persisted credential the
// session becomes Anonymous and the server is not contacted. A credential
// the server does not accept is forgotten and reported as an expired
// session.
func (s *Store) Init(ctx context.Context) {
	s.update(func(sn *Snapshot) {
		sn.State = Resolving
		sn.Loading = true
	})

	ok, err := s.auth.InitializeAuth(ctx)
	if err != nil {
		s.log.Error(ctx, "reading persisted credential failed", "error", err)
		s.expire(ctx)
		return
	}
	if !ok {
		s.update(func(sn *Snapshot) {
			*sn = Snapshot{State: Anonymous}
		})
		return
	}

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.log.Warn(ctx, "session restore failed", "error", err)
		s.expire(ctx)
		return
	}
	s.update(func(sn *Snapshot) {
		*sn = Snapshot{State: Authenticated, User: copyUser(user)}
	})
}

func (s *Store) expire(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.log.Error(ctx, "clearing credential failed", "error", err)
	}
	s.update(func(sn *Snapshot) {
		*sn = Snapshot{State: Anonymous, LastError: MsgSessionExpired}
	})
}

// Login authenticates with email and password. On failure LastError holds
// the server's message, or a generic one, and the error is returned.
func (s *Store) Login(ctx context.Context, email string, password []byte) error {
	return s.authenticate(ctx, MsgLoginFailed, func() (*models.AuthResponse, error) {
		return s.auth.Login(ctx, email, password)
	})
}

// Signup creates an account and signs into it, with the same failure
// semantics as Login.
func (s *Store) Signup(ctx context.Context, name, email string, password []byte) error {
	return s.authenticate(ctx, MsgSignupFailed, func() (*models.AuthResponse, error) {
		return s.auth.Signup(ctx, name, email, password)
	})
}

func (s *Store) authenticate(ctx context.Context, fallback string, call func() (*models.AuthResponse, error)) error {
	var prev Snapshot
	s.update(func(sn *Snapshot) {
		prev = *sn
		sn.State = Resolving
		sn.Loading = true
		sn.LastError = ""
	})

	resp, err := call()
	if err != nil {
		msg := client.UserMessage(err, fallback)
		s.update(func(sn *Snapshot) {
			// A failed attempt does not end a session that was already
			// authenticated; its credential is still stored.
			if prev.State == Authenticated {
				*sn = Snapshot{State: Authenticated, User: prev.User, LastError: msg}
				return
			}
			*sn = Snapshot{State: Anonymous, LastError: msg}
		})
		return err
	}

	s.update(func(sn *Snapshot) {
		*sn = Snapshot{State: Authenticated, User: copyUser(resp.User)}
	})
	return nil
}

// Logout ends the session. It never fails from the caller's point of view;
// a credential that could not be removed is only logged.
func (s *Store) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.log.Error(ctx, "clearing credential failed", "error", err)
	}
	s.update(func(sn *Snapshot) {
		sn.State = Anonymous
		sn.User = nil
		sn.Loading = false
	})
}

// ClearError resets LastError and leaves everything else untouched.
func (s *Store) ClearError() {
	s.update(func(sn *Snapshot) {
		sn.LastError = ""
	})
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
