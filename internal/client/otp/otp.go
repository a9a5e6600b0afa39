// Package otp classifies login identifiers and relays OTP requests to the
// backend while tracking, per channel, whether a code was sent and verified.
//
// Nothing here generates or checks codes; the backend is the only authority.
package otp

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

// Classify picks the delivery channel for a free-text identifier: anything
// containing "@" is an email, everything else a phone number. Malformed input
// is not rejected here; the backend's answer to SendOTP decides.
func Classify(identifier string) models.Channel {
	if strings.Contains(identifier, "@") {
		return models.ChannelEmail
	}
	return models.ChannelPhone
}

type channelState struct {
	identifier string
	sent       bool
	verified   bool
}

// VerificationState holds the sent/verified flags for both channels. The
// flags belong to the identifier they were earned for; changing the
// identifier resets them. Concurrent updates are last-writer-wins.
type VerificationState struct {
	mu       sync.Mutex
	channels map[models.Channel]*channelState
}

func NewVerificationState() *VerificationState {
	return &VerificationState{channels: map[models.Channel]*channelState{
		models.ChannelEmail: {},
		models.ChannelPhone: {},
	}}
}

func (s *VerificationState) get(ch models.Channel) *channelState {
	st, ok := s.channels[ch]
	if !ok {
		st = &channelState{}
		s.channels[ch] = st
	}
	return st
}

// Touch records the current identifier for ch and clears both flags when it
// differs from the one they were set for.
func (s *VerificationState) Touch(ch models.Channel, identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(ch)
	if st.identifier != identifier {
		*st = channelState{identifier: identifier}
	}
}

// markSent and markVerified drop late answers for an identifier the user
// already replaced.
func (s *VerificationState) markSent(ch models.Channel, identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(ch)
	if st.identifier != identifier {
		return
	}
	st.sent = true
}

func (s *VerificationState) markVerified(ch models.Channel, identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(ch)
	if st.identifier != identifier {
		return
	}
	st.verified = true
}

func (s *VerificationState) Sent(ch models.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ch).sent
}

func (s *VerificationState) Verified(ch models.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ch).verified
}

// VerifiedFor reports whether ch was verified for exactly identifier.
func (s *VerificationState) VerifiedFor(ch models.Channel, identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(ch)
	return st.verified && st.identifier == identifier
}

// Reset clears every channel.
func (s *VerificationState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.channels {
		s.channels[ch] = &channelState{}
	}
}

// Relay forwards OTP calls to the backend and records the outcome in State.
type Relay struct {
	users api.UserAPI
	State *VerificationState
}

func NewRelay(users api.UserAPI) *Relay {
	return &Relay{users: users, State: NewVerificationState()}
}

// Send asks the backend to deliver a code. On failure the flags are left as
// they were and the backend error is returned for display.
func (r *Relay) Send(ctx context.Context, ch models.Channel, identifier string) error {
	r.State.Touch(ch, identifier)
	if err := r.users.SendOTP(ctx, ch, identifier); err != nil {
		return err
	}
	r.State.markSent(ch, identifier)
	return nil
}

// Verify submits code for identifier. Only success changes the verified flag.
func (r *Relay) Verify(ctx context.Context, ch models.Channel, identifier, code string) error {
	r.State.Touch(ch, identifier)
	if err := r.users.VerifyOTP(ctx, ch, identifier, code); err != nil {
		return err
	}
	r.State.markVerified(ch, identifier)
	return nil
}
