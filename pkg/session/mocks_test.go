package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/chirpsocial/sessionkit/pkg/identity"
)

// fakeClock is a mutable time source shared with the manager under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeProvider is a scriptable identity provider.
type fakeProvider struct {
	mu      sync.Mutex
	current identity.Identity
	subs    map[int]func(identity.Identity)
	nextSub int

	signInFn func(identifier, secret string) (identity.Identity, error)
	signUpFn func(params identity.SignUpParams) (identity.Identity, error)

	claimsToken string
	claimsErr   error
	signOutErr  error
	deleteErr   error

	signInCalls  int
	signOutCalls int
	deleteCalls  int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		current: identity.None(),
		subs:    make(map[int]func(identity.Identity)),
	}
}

func (p *fakeProvider) SignIn(ctx context.Context, identifier, secret string) (identity.Identity, error) {
	p.mu.Lock()
	p.signInCalls++
	fn := p.signInFn
	p.mu.Unlock()

	if fn == nil {
		return identity.Identity{}, identity.ErrInvalidCredentials
	}

	ident, err := fn(identifier, secret)
	if err != nil {
		return identity.Identity{}, err
	}

	p.mu.Lock()
	p.current = ident
	p.mu.Unlock()
	return ident, nil
}

func (p *fakeProvider) SignUp(ctx context.Context, params identity.SignUpParams) (identity.Identity, error) {
	p.mu.Lock()
	fn := p.signUpFn
	p.mu.Unlock()

	if fn == nil {
		return identity.Identity{}, identity.ErrProviderUnavailable
	}

	ident, err := fn(params)
	if err != nil {
		return identity.Identity{}, err
	}

	p.mu.Lock()
	p.current = ident
	p.mu.Unlock()
	return ident, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOutCalls++
	p.current = identity.None()
	return p.signOutErr
}

func (p *fakeProvider) CurrentIdentity(ctx context.Context) (identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

func (p *fakeProvider) SubscribeChanges(cb func(identity.Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = cb
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *fakeProvider) ClaimsToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.claimsToken, p.claimsErr
}

func (p *fakeProvider) RefreshClaimsToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.claimsToken, p.claimsErr
}

func (p *fakeProvider) DeleteAccount(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteCalls++
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.current = identity.None()
	return nil
}

// emit fires the change subscription with ident, as the provider does when
// its own persistence restores a session or a remote sign-out lands.
func (p *fakeProvider) emit(ident identity.Identity) {
	p.mu.Lock()
	p.current = ident
	targets := make([]func(identity.Identity), 0, len(p.subs))
	for _, cb := range p.subs {
		targets = append(targets, cb)
	}
	p.mu.Unlock()

	for _, cb := range targets {
		cb(ident)
	}
}

func (p *fakeProvider) signInCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signInCalls
}

func (p *fakeProvider) signOutCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signOutCalls
}

// fakeProfiles is a scriptable profile store.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*identity.Profile
	err      error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]*identity.Profile)}
}

func (f *fakeProfiles) Get(ctx context.Context, id string) (*identity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[id], nil
}
