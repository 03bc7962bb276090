// Package services contains application services for the ZeroBalance client.
// This file defines the authentication service: signup, login, logout,
// restoring a persisted session and resolving the current user.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zerobalance/internal/client/client"
	"github.com/dmitrijs2005/zerobalance/internal/client/credentials"
	"github.com/dmitrijs2005/zerobalance/internal/client/models"
	"github.com/dmitrijs2005/zerobalance/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Signup, Login: authenticate against the server, persist the returned
//     credential and arm it for subsequent requests.
//   - Logout: forget the credential locally; no network call is made.
//   - CurrentUser: resolve the account the persisted credential belongs to;
//     any failure forgets the credential.
//   - InitializeAuth: arm a persisted credential, reporting whether one exists.
//   - IsLoggedIn: whether a credential is persisted.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Signup(ctx context.Context, name, email string, password []byte) (*models.AuthResponse, error)
	Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	InitializeAuth(ctx context.Context) (bool, error)
	IsLoggedIn(ctx context.Context) bool
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client, a
// credential Store and the Bearer the client reads tokens from.
type authService struct {
	client client.Client
	store  credentials.Store
	bearer *credentials.Bearer
	log    logging.Logger
}

// NewAuthService constructs an AuthService. bearer must be the TokenSource
// the client was built with, so that arming it affects outgoing requests.
func NewAuthService(c client.Client, store credentials.Store, bearer *credentials.Bearer, log logging.Logger) AuthService {
	return &authService{
		client: c,
		store:  store,
		bearer: bearer,
		log:    logging.OrNop(log).With("component", "auth_service"),
	}
}

func (a *authService) Signup(ctx context.Context, name, email string, password []byte) (*models.AuthResponse, error) {
	resp, err := a.client.Signup(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if err := a.remember(ctx, resp.Token); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "signed up", "user_id", resp.User.ID)
	return resp, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error) {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.remember(ctx, resp.Token); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "logged in", "user_id", resp.User.ID)
	return resp, nil
}

// remember persists token and arms it.
func (a *authService) remember(ctx context.Context, token string) error {
	if err := a.store.Save(ctx, token); err != nil {
		return err
	}
	a.bearer.Arm(token)
	return nil
}

// Logout disarms the credential and removes it from the store. The Bearer is
// disarmed even when the store fails.
func (a *authService) Logout(ctx context.Context) error {
	a.bearer.Disarm()
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

// CurrentUser fetches the account behind the persisted credential. Without
// one it returns client.ErrNotAuthenticated without contacting the server.
// When the fetch fails for any reason the credential is forgotten; a
// rejected credential is reported as client.ErrSessionExpired.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	token, ok, err := a.store.Read(ctx)
	if err != nil {
		return nil, errors.Join(err, a.forget(ctx))
	}
	if !ok || token == "" {
		a.bearer.Disarm()
		return nil, client.ErrNotAuthenticated
	}

	a.bearer.Arm(token)
	user, err := a.client.Me(ctx, token)
	if err != nil {
		a.log.Warn(ctx, "current user fetch failed, forgetting credential", "error", err)
		return nil, errors.Join(fmt.Errorf("current user: %w", err), a.forget(ctx))
	}
	return user, nil
}

func (a *authService) forget(ctx context.Context) error {
	a.bearer.Disarm()
	return a.store.Clear(ctx)
}

// InitializeAuth arms the persisted credential, if any. The credential is not
// validated here, see CurrentUser.
func (a *authService) InitializeAuth(ctx context.Context) (bool, error) {
	token, ok, err := a.store.Read(ctx)
	if err != nil {
		return false, err
	}
	if !ok || token == "" {
		a.bearer.Disarm()
		return false, nil
	}
	a.bearer.Arm(token)
	return true, nil
}

func (a *authService) IsLoggedIn(ctx context.Context) bool {
	_, ok, err := a.store.Read(ctx)
	return err == nil && ok
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
