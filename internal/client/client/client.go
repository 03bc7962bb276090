package client

import (
	"context"

	"github.com/dmitrijs2005/zerobalance/internal/client/models"
)

// Client is the transport-agnostic contract of the ZeroBalance backend.
type Client interface {
	Close() error
	Signup(ctx context.Context, name, email string, password []byte) (*models.AuthResponse, error)
	Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error)
	// Me fetches the user the given token belongs to.
	Me(ctx context.Context, token string) (*models.User, error)
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, name string) (*models.Profile, string, error)
	ChangePassword(ctx context.Context, current, next []byte) (string, error)
	GetProfileStats(ctx context.Context) (*models.ProfileStats, error)
	// Health returns the backend's status message.
	Health(ctx context.Context) (*models.Health, error)
	Ping(ctx context.Context) error
}

// TokenSource supplies the credential to attach to a request that does not
// carry one explicitly.
type TokenSource interface {
	Token() (string, bool)
}
