package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/zerobalance/internal/client/client"
	"github.com/dmitrijs2005/zerobalance/internal/client/models"
)

// ProfileService reads and edits the signed-in user's profile. Requests are
// authorized with the credential armed by AuthService.
type ProfileService interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	// UpdateProfile renames the user and returns the server's confirmation
	// message alongside the updated profile.
	UpdateProfile(ctx context.Context, name string) (*models.Profile, string, error)
	ChangePassword(ctx context.Context, current, next []byte) (string, error)
	GetStats(ctx context.Context) (*models.ProfileStats, error)
}

type profileService struct {
	client client.Client
}

func NewProfileService(c client.Client) ProfileService {
	return &profileService{client: c}
}

func (p *profileService) GetProfile(ctx context.Context) (*models.Profile, error) {
	profile, err := p.client.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (p *profileService) UpdateProfile(ctx context.Context, name string) (*models.Profile, string, error) {
	profile, msg, err := p.client.UpdateProfile(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("update profile: %w", err)
	}
	return profile, msg, nil
}

func (p *profileService) ChangePassword(ctx context.Context, current, next []byte) (string, error) {
	msg, err := p.client.ChangePassword(ctx, current, next)
	if err != nil {
		return "", fmt.Errorf("change password: %w", err)
	}
	return msg, nil
}

func (p *profileService) GetStats(ctx context.Context) (*models.ProfileStats, error) {
	stats, err := p.client.GetProfileStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile stats: %w", err)
	}
	return stats, nil
}
