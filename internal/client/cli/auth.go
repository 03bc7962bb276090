package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/zerobalance/internal/client/forms"
	"github.com/dmitrijs2005/zerobalance/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for name, e-mail and a confirmed password and creates an
// account. On success the new account is signed in.
//
// The password byte slices are wiped before returning. Form and service
// errors are printed and returned.
func (a *App) Signup(ctx context.Context) error {
	a.session.ClearError()

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form := forms.SignupForm{Name: name, Email: email, Password: password, ConfirmPassword: confirm}
	if err := form.Validate(); err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.session.Signup(ctx, form.Name, form.Email, form.Password); err != nil {
		printlnFn(a.session.Snapshot().LastError)
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", a.session.Snapshot().User.Name))
	return nil
}

// Login prompts the user for credentials and tries to authenticate. A failed
// attempt prints the session's error message.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	a.session.ClearError()

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := forms.LoginForm{Email: email, Password: password}
	if err := form.Validate(); err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.session.Login(ctx, form.Email, form.Password); err != nil {
		printlnFn(a.session.Snapshot().LastError)
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", a.session.Snapshot().User.Name))
	return nil
}

// Logout forgets the local credential. It does not contact the server and
// never fails.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out")
	return nil
}
