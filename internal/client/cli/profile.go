package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zerobalance/internal/client/client"
	"github.com/dmitrijs2005/zerobalance/internal/client/forms"
	"github.com/dmitrijs2005/zerobalance/internal/client/models"
	"github.com/dmitrijs2005/zerobalance/internal/client/session"
	"github.com/dmitrijs2005/zerobalance/internal/common"
)

const (
	msgAPIUnavailable    = "Failed to connect to the API. Please check your connection."
	msgProfileLoadFailed = "Failed to load profile data. Please try again."
	msgProfileUpdFailed  = "Failed to update profile. Please try again."
	msgPasswordFailed    = "Failed to change password. Please try again."
	msgStatsFailed       = "Failed to load statistics. Please try again."
)

// reportFailure prints msg for err. A credential the server no longer
// accepts ends the session instead.
func (a *App) reportFailure(ctx context.Context, err error, msg string) error {
	if errors.Is(err, client.ErrSessionExpired) {
		a.session.Logout(ctx)
		printlnFn(session.MsgSessionExpired)
		return err
	}
	a.log.Warn(ctx, "command failed", "error", err)
	printlnFn(msg)
	return err
}

// Dashboard greets the user and shows the backend status.
func (a *App) Dashboard(ctx context.Context) error {
	user := a.session.Snapshot().User
	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	printlnFn("You are now logged in to Zero Balance.")

	h, err := a.api.Health(ctx)
	if err != nil {
		printlnFn("API status:", msgAPIUnavailable)
		return nil
	}
	printlnFn("API status:", h.Message)
	return nil
}

// Profile shows the profile and, when available, the statistics. Failing to
// load statistics is not reported to the user.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profile.GetProfile(ctx)
	if err != nil {
		return a.reportFailure(ctx, err, msgProfileLoadFailed)
	}
	printlnFn("Name:        ", p.Name)
	printlnFn("Email:       ", p.Email)
	if p.CreatedAt != "" {
		printlnFn("Member since:", p.CreatedAt)
	}

	stats, err := a.profile.GetStats(ctx)
	if err != nil {
		a.log.Warn(ctx, "fetching stats failed", "error", err)
		return nil
	}
	printStats(stats)
	return nil
}

// EditProfile renames the signed-in user.
func (a *App) EditProfile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter new name", a.out)
	if err != nil {
		return err
	}

	form := forms.ProfileForm{Name: name}
	if err := form.Validate(); err != nil {
		printlnFn(err.Error())
		return err
	}

	p, msg, err := a.profile.UpdateProfile(ctx, form.Name)
	if err != nil {
		return a.reportFailure(ctx, err, msgProfileUpdFailed)
	}
	if msg == "" {
		msg = "Profile updated"
	}
	printlnFn(fmt.Sprintf("%s: %s", msg, p.Name))
	return nil
}

// ChangePassword prompts for the current password and a confirmed new one.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	confirm, err := getPassword(a.out, "Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form := forms.PasswordForm{Current: current, New: next, Confirm: confirm}
	if err := form.Validate(); err != nil {
		printlnFn(err.Error())
		return err
	}

	msg, err := a.profile.ChangePassword(ctx, form.Current, form.New)
	if err != nil {
		return a.reportFailure(ctx, err, client.UserMessage(err, msgPasswordFailed))
	}
	printlnFn(msg)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	stats, err := a.profile.GetStats(ctx)
	if err != nil {
		return a.reportFailure(ctx, err, msgStatsFailed)
	}
	printStats(stats)
	return nil
}

// WhoAmI prints the signed-in user from the session without contacting the
// server.
func (a *App) WhoAmI(context.Context) error {
	u := a.session.Snapshot().User
	printlnFn(fmt.Sprintf("%s <%s> (id %d)", u.Name, u.Email, u.ID))
	return nil
}

func printStats(s *models.ProfileStats) {
	printlnFn(fmt.Sprintf("Total debt:       $%.2f", s.TotalDebt))
	printlnFn(fmt.Sprintf("Total income:     $%.2f", s.TotalIncome))
	printlnFn(fmt.Sprintf("Debt-to-income:   %.1f%%", s.DebtToIncomeRatio*100))
	printlnFn(fmt.Sprintf("Debts:            %d", s.DebtCount))
	printlnFn(fmt.Sprintf("Income sources:   %d", s.IncomeSourcesCount))
}
