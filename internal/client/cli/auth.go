package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskmarket/internal/common"
)

// getSimpleText, getOTP and getMultiline are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getOTP        = GetOTP
	getMultiline  = GetMultiline
)

// ask prompts with the current value shown; an empty answer keeps it.
// "cancel" aborts the whole flow.
func (a *App) ask(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(v) {
	case "":
		return current, nil
	case "cancel":
		return "", errCancelled
	}
	return v, nil
}

func (a *App) readOTP() (string, error) {
	code, err := getOTP(a.reader, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(code)
	return string(code), nil
}

// Login asks for an email or phone number, requests a code and exchanges it
// for a session. A wrong code may be re-entered; the previous session is
// untouched until the backend accepts one.
func (a *App) Login(ctx context.Context) error {
	identifier, err := a.ask("Enter your email or phone number", "")
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	ch, err := a.authService.SendLoginOTP(rctx, identifier)
	cancel()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "We sent a code to your %s.\n", ch)

	for attempt := 0; attempt < 3; attempt++ {
		code, err := a.readOTP()
		if err != nil {
			return err
		}
		if code == "" {
			return errCancelled
		}

		rctx, cancel := a.requestCtx(ctx)
		u, err := a.authService.Login(rctx, identifier, code)
		cancel()
		if err == nil {
			fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
			return nil
		}
		fmt.Fprintln(a.out, userMessage(err))
	}
	return errors.New("too many attempts, request a new code with 'login'")
}

// Logout forgets the session; the next protected command asks for login.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %s)\n", u.DisplayName(), u.ID)
	if u.Email != "" {
		fmt.Fprintf(a.out, "  email: %s\n", u.Email)
	}
	if u.Phone != "" {
		fmt.Fprintf(a.out, "  phone: %s\n", u.Phone)
	}
	if u.Role != "" {
		fmt.Fprintf(a.out, "  role:  %s\n", u.Role)
	}
	if u.ReferralCode != "" {
		fmt.Fprintf(a.out, "  your referral code: %s\n", u.ReferralCode)
	}
	return nil
}

// Referral stores the code from an invite link for the next signup.
func (a *App) Referral(ctx context.Context, args []string) error {
	if len(args) != 1 {
		if code := a.sessions.ReferralCode(); code != "" {
			fmt.Fprintf(a.out, "Referral code: %s\n", code)
			return nil
		}
		return usageError("ref <invite link or code>")
	}
	code, err := a.authService.CaptureReferral(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Referral code %s saved; it will be used when you sign up.\n", code)
	return nil
}
