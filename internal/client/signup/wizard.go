// Package signup implements the three-step registration wizard:
//
//	Step1 identity (name, email) → Step2 phone verification →
//	Step3 demographics (dob, state, city, referral) → Submitting → Done
//
// Forward moves are gated by per-step validation; Back is always allowed
// and keeps what was typed. The draft lives only in memory.
package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/client/otp"
)

type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Submitting
	Done
)

func (s Step) String() string {
	switch s {
	case Step1:
		return "identity"
	case Step2:
		return "phone verification"
	case Step3:
		return "personal details"
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Draft is the in-progress registration form.
type Draft struct {
	Name         string
	Email        string
	Phone        string
	DOB          string
	StateID      string
	CityID       string
	ReferralCode string
}

func (d Draft) registration() models.Registration {
	return models.Registration{
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.TrimSpace(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		DOB:          strings.TrimSpace(d.DOB),
		StateID:      d.StateID,
		CityID:       d.CityID,
		ReferralCode: strings.TrimSpace(d.ReferralCode),
	}
}

var (
	ErrFieldRequired     = errors.New("is required")
	ErrNotVerified       = errors.New("is not verified")
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrSessionNotSaved is returned by a SubmitFunc whose registration went
	// through but whose session could not be stored locally.
	ErrSessionNotSaved = errors.New("account created, please log in")
)

// StepError explains why the wizard refused to move forward.
type StepError struct {
	Step  Step
	Field string
	Err   error
}

func (e *StepError) Error() string {
	return e.Field + " " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }

// Options parameterise the flow.
type Options struct {
	// RequireEmailVerification makes Step1 → Step2 wait for a verified email.
	RequireEmailVerification bool
}

// SubmitFunc performs the registration call.
type SubmitFunc func(ctx context.Context, r models.Registration) (*models.AuthResult, error)

type Wizard struct {
	opts   Options
	relay  *otp.Relay
	submit SubmitFunc

	step  Step
	draft Draft
}

func New(relay *otp.Relay, submit SubmitFunc, opts Options) *Wizard {
	return &Wizard{opts: opts, relay: relay, submit: submit, step: Step1}
}

func (w *Wizard) Step() Step   { return w.step }
func (w *Wizard) Draft() Draft { return w.draft }

// EmailVerified and PhoneVerified only count a verification earned for the
// value currently in the draft.
func (w *Wizard) EmailVerified() bool {
	return w.relay.State.VerifiedFor(models.ChannelEmail, w.draft.Email)
}

func (w *Wizard) PhoneVerified() bool {
	return w.relay.State.VerifiedFor(models.ChannelPhone, w.draft.Phone)
}

func (w *Wizard) SetName(v string) { w.draft.Name = v }

// SetEmail updates the email; a different value drops its verification.
func (w *Wizard) SetEmail(v string) {
	w.draft.Email = strings.TrimSpace(v)
	w.relay.State.Touch(models.ChannelEmail, w.draft.Email)
}

// SetPhone updates the phone; a different value drops its verification.
func (w *Wizard) SetPhone(v string) {
	w.draft.Phone = strings.TrimSpace(v)
	w.relay.State.Touch(models.ChannelPhone, w.draft.Phone)
}

func (w *Wizard) SetDOB(v string) { w.draft.DOB = v }

// SetState selects a state; the city is cleared when the state changes.
func (w *Wizard) SetState(id string) {
	if id != w.draft.StateID {
		w.draft.CityID = ""
	}
	w.draft.StateID = id
}

func (w *Wizard) SetCity(id string)        { w.draft.CityID = id }
func (w *Wizard) SetReferralCode(v string) { w.draft.ReferralCode = v }

func (w *Wizard) SendEmailOTP(ctx context.Context) error {
	if blank(w.draft.Email) {
		return &StepError{Step: Step1, Field: "email", Err: ErrFieldRequired}
	}
	return w.relay.Send(ctx, models.ChannelEmail, w.draft.Email)
}

func (w *Wizard) VerifyEmailOTP(ctx context.Context, code string) error {
	return w.relay.Verify(ctx, models.ChannelEmail, w.draft.Email, code)
}

func (w *Wizard) SendPhoneOTP(ctx context.Context) error {
	if blank(w.draft.Phone) {
		return &StepError{Step: Step2, Field: "phone", Err: ErrFieldRequired}
	}
	return w.relay.Send(ctx, models.ChannelPhone, w.draft.Phone)
}

func (w *Wizard) VerifyPhoneOTP(ctx context.Context, code string) error {
	return w.relay.Verify(ctx, models.ChannelPhone, w.draft.Phone, code)
}

// Next advances Step1 → Step2 → Step3 when the current step validates.
// Step3 is left only through Submit.
func (w *Wizard) Next() error {
	switch w.step {
	case Step1:
		if err := w.validateStep1(); err != nil {
			return err
		}
		w.step = Step2
	case Step2:
		if err := w.validateStep2(); err != nil {
			return err
		}
		w.step = Step3
	default:
		return fmt.Errorf("%w: next from %s", ErrInvalidTransition, w.step)
	}
	return nil
}

// Back moves one step back without touching the draft.
func (w *Wizard) Back() {
	switch w.step {
	case Step2:
		w.step = Step1
	case Step3:
		w.step = Step2
	}
}

// Submit registers the draft. It re-checks every step so that no path can
// reach the backend with a missing field or an unverified phone. Backend
// failure returns the wizard to Step3 with the draft intact. ErrSessionNotSaved
// still finishes the wizard since the account exists.
func (w *Wizard) Submit(ctx context.Context) (*models.AuthResult, error) {
	if w.step != Step3 {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.step)
	}
	for _, validate := range []func() error{w.validateStep1, w.validateStep2, w.validateStep3} {
		if err := validate(); err != nil {
			return nil, err
		}
	}

	w.step = Submitting
	res, err := w.submit(ctx, w.draft.registration())
	if err != nil && !errors.Is(err, ErrSessionNotSaved) {
		w.step = Step3
		return nil, err
	}

	w.step = Done
	w.draft = Draft{}
	w.relay.State.Reset()
	return res, err
}

// Abandon discards the draft and verification, as when the form is closed.
func (w *Wizard) Abandon() {
	w.draft = Draft{}
	w.relay.State.Reset()
	w.step = Step1
}

func (w *Wizard) validateStep1() error {
	if blank(w.draft.Name) {
		return &StepError{Step: Step1, Field: "name", Err: ErrFieldRequired}
	}
	if blank(w.draft.Email) {
		return &StepError{Step: Step1, Field: "email", Err: ErrFieldRequired}
	}
	if w.opts.RequireEmailVerification && !w.EmailVerified() {
		return &StepError{Step: Step1, Field: "email", Err: ErrNotVerified}
	}
	return nil
}

func (w *Wizard) validateStep2() error {
	if blank(w.draft.Phone) {
		return &StepError{Step: Step2, Field: "phone", Err: ErrFieldRequired}
	}
	if !w.PhoneVerified() {
		return &StepError{Step: Step2, Field: "phone", Err: ErrNotVerified}
	}
	return nil
}

func (w *Wizard) validateStep3() error {
	switch {
	case blank(w.draft.DOB):
		return &StepError{Step: Step3, Field: "date of birth", Err: ErrFieldRequired}
	case blank(w.draft.StateID):
		return &StepError{Step: Step3, Field: "state", Err: ErrFieldRequired}
	case blank(w.draft.CityID):
		return &StepError{Step: Step3, Field: "city", Err: ErrFieldRequired}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
