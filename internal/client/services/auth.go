// Package services contains the application services behind the CLI.
// This file defines authentication: OTP login, signup, logout, and the
// referral code captured from invite links.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/client/otp"
	"github.com/dmitrijs2005/taskmarket/internal/client/referral"
	"github.com/dmitrijs2005/taskmarket/internal/client/session"
	"github.com/dmitrijs2005/taskmarket/internal/client/signup"
)

var ErrEmptyIdentifier = errors.New("enter an email address or phone number")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SendLoginOTP: classify the identifier and ask the backend for a code.
//   - Login: exchange identifier and code for a session, then bootstrap it.
//   - NewSignup: start a registration wizard whose submit also bootstraps
//     the session.
//   - Logout: remove every persisted session key.
//   - CurrentUser: the logged-in user, or session.ErrNotLoggedIn.
//
// All methods honor context cancellation/timeouts.
type AuthService interface {
	SendLoginOTP(ctx context.Context, identifier string) (models.Channel, error)
	Login(ctx context.Context, identifier, code string) (*models.User, error)
	NewSignup() *signup.Wizard
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	CaptureReferral(ctx context.Context, link string) (string, error)
	States(ctx context.Context) ([]models.State, error)
	Cities(ctx context.Context, stateID string) ([]models.City, error)
}

type authService struct {
	users    api.UserAPI
	sessions *session.Provider
	relay    *otp.Relay
	opts     signup.Options
}

// NewAuthService constructs an AuthService bound to the user API and the
// session provider.
func NewAuthService(users api.UserAPI, sessions *session.Provider, opts signup.Options) AuthService {
	return &authService{users: users, sessions: sessions, relay: otp.NewRelay(users), opts: opts}
}

// SendLoginOTP returns the channel the code went to.
func (a *authService) SendLoginOTP(ctx context.Context, identifier string) (models.Channel, error) {
	if identifier == "" {
		return "", ErrEmptyIdentifier
	}
	ch := otp.Classify(identifier)
	if err := a.relay.Send(ctx, ch, identifier); err != nil {
		return ch, err
	}
	return ch, nil
}

// Login persists the session only after the backend accepted the code; on
// any failure the previous session stays as it was.
func (a *authService) Login(ctx context.Context, identifier, code string) (*models.User, error) {
	if identifier == "" {
		return nil, ErrEmptyIdentifier
	}
	res, err := a.users.Login(ctx, otp.Classify(identifier), identifier, code)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Save(ctx, res); err != nil {
		return nil, err
	}
	a.relay.State.Reset()
	return &res.User, nil
}

func (a *authService) NewSignup() *signup.Wizard {
	w := signup.New(otp.NewRelay(a.users), a.register, a.opts)
	w.SetReferralCode(a.sessions.ReferralCode())
	return w
}

func (a *authService) register(ctx context.Context, r models.Registration) (*models.AuthResult, error) {
	res, err := a.users.Register(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Save(ctx, res); err != nil {
		return res, fmt.Errorf("%w: %v", signup.ErrSessionNotSaved, err)
	}
	return res, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	return a.sessions.RequireLogin(ctx)
}

// CaptureReferral accepts an invite link or a bare code and stores the code
// for the next signup.
func (a *authService) CaptureReferral(ctx context.Context, link string) (string, error) {
	code, err := referral.Parse(link)
	if err != nil {
		return "", err
	}
	if err := a.sessions.SetReferralCode(ctx, code); err != nil {
		return "", fmt.Errorf("capture referral: %w", err)
	}
	return code, nil
}

func (a *authService) States(ctx context.Context) ([]models.State, error) {
	return a.users.States(ctx)
}

func (a *authService) Cities(ctx context.Context, stateID string) ([]models.City, error) {
	return a.users.Cities(ctx, stateID)
}
