package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/logging"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Listener is called after every change of the session, with the new record.
type Listener func(Record)

// nowFn is replaced in tests.
var nowFn = time.Now

// Provider is the process-wide view of the session. All reads go through
// its cached record; writes go to the Store first and only then replace the
// cache, so a failed write leaves the previous session in effect.
type Provider struct {
	store Store
	log   logging.Logger

	mu        sync.RWMutex
	current   Record
	listeners []Listener
}

func NewProvider(store Store, log logging.Logger) *Provider {
	if log == nil {
		log = logging.Nop()
	}
	return &Provider{store: store, log: log}
}

// Load reads the record from the store into the cache. A record whose token
// has expired is reported as logged out; the referral code survives.
func (p *Provider) Load(ctx context.Context) (Record, error) {
	r, err := p.store.Load(ctx)
	if err != nil && !errors.Is(err, ErrCorruptRecord) {
		return Record{}, fmt.Errorf("load session: %w", err)
	}
	if err != nil {
		p.log.Warn(ctx, "discarding unreadable session", "error", err)
		r = Record{ReferralCode: r.ReferralCode}
	}

	if r.IsLoggedIn && tokenExpired(r.Token) {
		p.log.Info(ctx, "session token expired")
		r = Record{ReferralCode: r.ReferralCode}
	}

	p.mu.Lock()
	p.current = r
	p.mu.Unlock()
	return r, nil
}

// Save persists a successful login or signup and refreshes subscribers.
// The referral code already captured is kept unless res carries none.
func (p *Provider) Save(ctx context.Context, res *models.AuthResult) error {
	if res == nil {
		return errors.New("empty auth result")
	}

	p.mu.RLock()
	ref := p.current.ReferralCode
	p.mu.RUnlock()

	user := res.User
	r := Record{User: &user, IsLoggedIn: true, Token: res.Token, ReferralCode: ref}
	if err := p.store.Save(ctx, r); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	p.replace(r)
	p.log.Info(ctx, "session started", "user", user.ID)
	return nil
}

// Clear logs out: every persisted key is removed, including the referral.
func (p *Provider) Clear(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	p.replace(Record{})
	p.log.Info(ctx, "session cleared")
	return nil
}

// Current returns the cached record.
func (p *Provider) Current() Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// RequireLogin reloads the session and returns the user, or ErrNotLoggedIn.
func (p *Provider) RequireLogin(ctx context.Context) (*models.User, error) {
	r, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !r.Active() {
		return nil, ErrNotLoggedIn
	}
	u := *r.User
	return &u, nil
}

// Token returns the bearer token of the cached session. It matches
// api.TokenSource.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.current.IsLoggedIn {
		return ""
	}
	return p.current.Token
}

func (p *Provider) ReferralCode() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.ReferralCode
}

// SetReferralCode persists a captured referral code.
func (p *Provider) SetReferralCode(ctx context.Context, code string) error {
	if err := p.store.SaveReferral(ctx, code); err != nil {
		return fmt.Errorf("save referral: %w", err)
	}
	p.mu.Lock()
	p.current.ReferralCode = code
	p.mu.Unlock()
	return nil
}

// Subscribe registers l for every later change.
func (p *Provider) Subscribe(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *Provider) replace(r Record) {
	p.mu.Lock()
	p.current = r
	ls := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range ls {
		l(r)
	}
}

// tokenExpired reports whether a JWT carries an exp claim in the past.
// Tokens that are not JWTs, or have no exp, never expire client-side.
func tokenExpired(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(nowFn())
}
