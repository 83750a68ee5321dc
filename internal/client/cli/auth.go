package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a display name, email and password and creates the
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	userID, err := a.client.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s). Check your inbox for the verification link.\n", email, userID)
	return nil
}

// VerifyEmail prompts for the token delivered by email and confirms it.
func (a *App) VerifyEmail(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter verification token", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	if err := a.client.VerifyEmail(ctx, token); err != nil {
		return err
	}

	if a.session != nil {
		a.session.EmailVerified = true
	}

	fmt.Fprintln(a.out, "Email verified")
	return nil
}

// Login prompts for credentials and opens a session for the configured
// device. A failed attempt leaves any previous session untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callContext(ctx)
	defer cancel()

	session, err := a.client.Login(ctx, email, string(password), a.deviceID())
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.session = session
	a.setMode(ModeOnline)

	fmt.Fprintf(a.out, "Logged in as %s\n", session.Email)
	if !session.EmailVerified {
		fmt.Fprintln(a.out, "Email is not verified yet")
	}
	return nil
}

// Renew exchanges the stored refresh token for a fresh access token.
func (a *App) Renew(ctx context.Context) error {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	if err := a.client.RenewAccessToken(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Access token renewed")
	return nil
}

// WhoAmI prints the profile of the authenticated user.
func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.callContext(ctx)
	defer cancel()

	p, err := a.client.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id:       %s\n", p.UserID)
	if p.Name != "" {
		fmt.Fprintf(a.out, "name:     %s\n", p.Name)
	}
	fmt.Fprintf(a.out, "email:    %s\n", p.Email)
	fmt.Fprintf(a.out, "verified: %t\n", p.EmailVerified)
	return nil
}

// Logout forgets the token pair. Nothing is revoked on the server.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) deviceID() string {
	if a.config == nil {
		return ""
	}
	return a.config.DeviceID
}
