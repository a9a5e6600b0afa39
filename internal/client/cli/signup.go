package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/client/signup"
)

// errBack asks the wizard to return to the previous step.
var errBack = errors.New("back")

// Signup walks the user through the three registration steps. At any prompt
// "back" returns to the previous step and "cancel" abandons the draft.
// Validation and backend errors are printed and the current step repeats.
func (a *App) Signup(ctx context.Context) error {
	w := a.authService.NewSignup()
	fmt.Fprintln(a.out, `Create an account. Type "back" to return to the previous step or "cancel" to stop.`)

	for w.Step() != signup.Done {
		var err error
		switch w.Step() {
		case signup.Step1:
			err = a.signupIdentity(ctx, w)
		case signup.Step2:
			err = a.signupPhone(ctx, w)
		case signup.Step3:
			err = a.signupDetails(ctx, w)
		}

		switch {
		case err == nil:
		case errors.Is(err, errBack):
			w.Back()
		case errors.Is(err, errCancelled):
			w.Abandon()
			fmt.Fprintln(a.out, "Signup cancelled.")
			return nil
		case errors.Is(err, errInput):
			w.Abandon()
			return err
		case errors.Is(err, signup.ErrSessionNotSaved):
			fmt.Fprintln(a.out, "Your account was created but you are not signed in. Please log in.")
			return nil
		default:
			fmt.Fprintln(a.out, userMessage(err))
		}
	}

	fmt.Fprintf(a.out, "Welcome to taskmarket, %s!\n", a.getStatus())
	return nil
}

// errInput marks failures reading from the terminal, which end the flow
// instead of repeating the step.
var errInput = errors.New("input")

func (a *App) wizardAsk(w *signup.Wizard, prompt, current string) (string, error) {
	v, err := a.ask(prompt, current)
	if err != nil {
		if errors.Is(err, errCancelled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errInput, err)
	}
	if strings.EqualFold(v, "back") {
		if w.Step() == signup.Step1 {
			return "", errCancelled
		}
		return "", errBack
	}
	return v, nil
}

func (a *App) wizardOTP() (string, error) {
	code, err := a.readOTP()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInput, err)
	}
	return code, nil
}

func (a *App) signupIdentity(ctx context.Context, w *signup.Wizard) error {
	d := w.Draft()
	name, err := a.wizardAsk(w, "Full name", d.Name)
	if err != nil {
		return err
	}
	w.SetName(name)

	email, err := a.wizardAsk(w, "Email", d.Email)
	if err != nil {
		return err
	}
	w.SetEmail(email)

	if a.config.RequireEmailVerification && !w.EmailVerified() && email != "" {
		if err := a.verifyChannel(ctx, w.SendEmailOTP, w.VerifyEmailOTP, "email"); err != nil {
			return err
		}
	}
	return w.Next()
}

func (a *App) signupPhone(ctx context.Context, w *signup.Wizard) error {
	phone, err := a.wizardAsk(w, "Mobile number", w.Draft().Phone)
	if err != nil {
		return err
	}
	w.SetPhone(phone)

	if !w.PhoneVerified() && phone != "" {
		if err := a.verifyChannel(ctx, w.SendPhoneOTP, w.VerifyPhoneOTP, "phone"); err != nil {
			return err
		}
	}
	return w.Next()
}

func (a *App) verifyChannel(ctx context.Context, send func(context.Context) error, verify func(context.Context, string) error, what string) error {
	rctx, cancel := a.requestCtx(ctx)
	err := send(rctx)
	cancel()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "We sent a code to your %s.\n", what)

	code, err := a.wizardOTP()
	if err != nil {
		return err
	}

	rctx, cancel = a.requestCtx(ctx)
	defer cancel()
	if err := verify(rctx, code); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Your %s is verified.\n", what)
	return nil
}

func (a *App) signupDetails(ctx context.Context, w *signup.Wizard) error {
	d := w.Draft()
	dob, err := a.wizardAsk(w, "Date of birth (YYYY-MM-DD)", d.DOB)
	if err != nil {
		return err
	}
	w.SetDOB(dob)

	rctx, cancel := a.requestCtx(ctx)
	states, err := a.authService.States(rctx)
	cancel()
	if err != nil {
		return err
	}
	stateID, err := a.choose(w, "State", d.StateID, toOptions(states, func(s models.State) (string, string) { return s.ID, s.Name }))
	if err != nil {
		return err
	}
	w.SetState(stateID)

	rctx, cancel = a.requestCtx(ctx)
	cities, err := a.authService.Cities(rctx, stateID)
	cancel()
	if err != nil {
		return err
	}
	cityID, err := a.choose(w, "City", w.Draft().CityID, toOptions(cities, func(c models.City) (string, string) { return c.ID, c.Name }))
	if err != nil {
		return err
	}
	w.SetCity(cityID)

	ref, err := a.wizardAsk(w, "Referral code (optional)", d.ReferralCode)
	if err != nil {
		return err
	}
	w.SetReferralCode(ref)

	rctx, cancel = a.requestCtx(ctx)
	defer cancel()
	_, err = w.Submit(rctx)
	return err
}

type option struct{ id, name string }

func toOptions[T any](items []T, f func(T) (string, string)) []option {
	out := make([]option, len(items))
	for i, it := range items {
		out[i].id, out[i].name = f(it)
	}
	return out
}

// choose lists opts and returns the id picked by number or by name.
func (a *App) choose(w *signup.Wizard, label, currentID string, opts []option) (string, error) {
	if len(opts) == 0 {
		return "", fmt.Errorf("no %s available", strings.ToLower(label))
	}

	current := ""
	for i, o := range opts {
		fmt.Fprintf(a.out, "  %2d. %s\n", i+1, o.name)
		if o.id == currentID {
			current = o.name
		}
	}

	v, err := a.wizardAsk(w, label, current)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(opts) {
		return opts[n-1].id, nil
	}
	for _, o := range opts {
		if strings.EqualFold(o.name, v) {
			return o.id, nil
		}
	}
	return "", fmt.Errorf("unknown %s %q", strings.ToLower(label), v)
}
