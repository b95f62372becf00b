package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/chirpsocial/sessionkit/pkg/identity"
	"github.com/chirpsocial/sessionkit/pkg/vault"
)

// ProfileProvisioner creates profile data for a freshly registered account.
// Invoked best-effort after provider confirmation during sign-up.
type ProfileProvisioner interface {
	Provision(ctx context.Context, profile identity.Profile) error
}

// Data is a point-in-time snapshot of the session handed to UI callers.
type Data struct {
	State           State
	Identity        identity.Identity
	Record          *Record
	NeedsProfile    bool
	Privileges      identity.PrivilegeClaims
	HasLocalSession bool
	Ready           bool
}

// Manager is the session state machine. It is the single writer for the
// current Identity and Record: every mutation goes through apply under the
// manager's lock, and listeners observe transitions in applied order.
type Manager struct {
	provider    identity.Provider
	vault       *vault.Vault
	profiles    identity.ProfileStore
	provisioner ProfileProvisioner
	lockout     *identity.Lockout
	config      Config
	log         *slog.Logger
	now         func() time.Time

	mu           sync.Mutex
	state        State
	ident        identity.Identity
	record       *Record
	needsProfile bool
	hasLocal     bool
	privileges   identity.PrivilegeClaims

	inflight       int
	pendingSignOut bool
	lastPersist    time.Time
	bgTimer        *time.Timer

	ready    atomic.Bool
	resolved atomic.Bool
	started  atomic.Bool
	closed   atomic.Bool

	raceCancel  context.CancelFunc
	unsubscribe func()
	unsubOnce   sync.Once
	autoOnce    sync.Once
	closeOnce   sync.Once
	done        chan struct{}

	listenerMu   sync.Mutex
	listeners    map[uint64]func(Change)
	nextListener uint64

	queueMu   sync.Mutex
	queueCond *sync.Cond
	queue     []Change
	draining  bool
}

// New creates a Manager over the given provider and credential vault. Call
// Start to begin the resolution race; the zero state before Start is
// Unknown and IsReady reports false.
func New(provider identity.Provider, credVault *vault.Vault, opts ...Option) *Manager {
	m := &Manager{
		provider:  provider,
		vault:     credVault,
		config:    DefaultConfig(),
		log:       slog.Default(),
		now:       time.Now,
		state:     StateUnknown,
		ident:     identity.None(),
		done:      make(chan struct{}),
		listeners: make(map[uint64]func(Change)),
	}
	m.queueCond = sync.NewCond(&m.queueMu)

	for _, opt := range opts {
		opt(m)
	}

	if m.lockout == nil {
		m.lockout = identity.NewLockout(identity.DefaultLockoutConfig())
	}

	go m.dispatchLoop()

	return m
}

// Start subscribes to provider changes and launches the resolution race.
func (m *Manager) Start(ctx context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	m.mu.Lock()
	m.hasLocal = m.vault.HasSessionEvidence(ctx)
	m.mu.Unlock()

	raceCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Lock()
	m.raceCancel = cancel
	m.mu.Unlock()

	unsubscribe := m.provider.SubscribeChanges(m.onProviderChange)
	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	go m.runResolutionRace(raceCtx)
	go m.expiryLoop()

	return nil
}

// Close tears the manager down: unsubscribes from the provider exactly
// once, cancels any pending resolution work, and drains the listener
// queue. Idempotent.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)

		m.mu.Lock()
		unsubscribe := m.unsubscribe
		cancel := m.raceCancel
		m.stopBackgroundTimerLocked()
		m.mu.Unlock()

		if unsubscribe != nil {
			m.unsubOnce.Do(unsubscribe)
		}
		if cancel != nil {
			cancel()
		}

		close(m.done)

		m.queueMu.Lock()
		m.draining = true
		m.queueCond.Broadcast()
		m.queueMu.Unlock()
	})
	return nil
}

// SignIn authenticates interactively. On success it saves the credential
// for future auto-login, starts a new session record and transitions to
// Authenticated. On failure the saved credential and the current state are
// left untouched.
func (m *Manager) SignIn(ctx context.Context, identifier, secret string) error {
	if !m.started.Load() {
		return ErrNotStarted
	}
	if m.closed.Load() {
		return ErrClosed
	}

	// Lockout bookkeeping runs before the provider so a locked account
	// never reaches the network.
	if err := m.lockout.Check(identifier); err != nil {
		return err
	}

	m.mu.Lock()
	if m.inflight > 0 {
		m.mu.Unlock()
		return ErrSignInInProgress
	}
	m.inflight++
	m.mu.Unlock()

	ident, err := m.provider.SignIn(ctx, identifier, secret)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--

	if err != nil {
		// A sign-out that raced this attempt already applied its
		// teardown; the flag must not outlive the attempt it targeted.
		m.pendingSignOut = false
		if errors.Is(err, identity.ErrInvalidCredentials) {
			m.lockout.RecordFailure(identifier)
		}
		return err
	}
	m.lockout.RecordSuccess(identifier)

	// A sign-out issued while this attempt was in flight wins: the state
	// is already Unauthenticated and stays there.
	if m.pendingSignOut {
		m.pendingSignOut = false
		m.teardownLocked(ctx)
		go m.remoteSignOut()
		return nil
	}

	m.completeSignInLocked(ctx, ident, identifier, secret)
	return nil
}

// SignUp provisions a new account and signs it in. Profile data is
// provisioned after provider confirmation; a provisioning failure does not
// undo the created account, it is logged and caught later by the
// default-profile gate.
func (m *Manager) SignUp(ctx context.Context, identifier, secret, displayName, handle string) error {
	if !m.started.Load() {
		return ErrNotStarted
	}
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.Lock()
	if m.inflight > 0 {
		m.mu.Unlock()
		return ErrSignInInProgress
	}
	m.inflight++
	m.mu.Unlock()

	ident, err := m.provider.SignUp(ctx, identity.SignUpParams{
		Identifier:  identifier,
		Secret:      secret,
		DisplayName: displayName,
		Handle:      handle,
	})

	if err == nil && m.provisioner != nil {
		if provErr := m.provisioner.Provision(ctx, identity.Profile{
			ID:          ident.ID,
			DisplayName: displayName,
			Handle:      handle,
		}); provErr != nil {
			m.log.WarnContext(ctx, "session: profile provisioning failed", "error", provErr)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--

	if err != nil {
		m.pendingSignOut = false
		return err
	}

	if m.pendingSignOut {
		m.pendingSignOut = false
		m.teardownLocked(ctx)
		go m.remoteSignOut()
		return nil
	}

	m.completeSignInLocked(ctx, ident, identifier, secret)
	return nil
}

// SignInAsGuest establishes a locally provisioned guest session. Guest
// sessions never persist a credential, so they are not auto-login
// candidates.
func (m *Manager) SignInAsGuest(ctx context.Context) error {
	if !m.started.Load() {
		return ErrNotStarted
	}
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Any registered identity goes first.
	if m.state.Active() {
		m.teardownLocked(ctx)
		go m.remoteSignOut()
	}

	guest := identity.Guest(uuid.NewString(), "guest_"+uuid.NewString())

	m.markResolved()
	m.record = newRecord(m.now())
	m.lastPersist = m.now()
	m.privileges = identity.NoPrivileges()
	m.apply(StateGuest, guest)
	return nil
}

// SignOut clears the session record and the saved credential, invalidates
// the remote session, and transitions to Unauthenticated. Safe to call
// from the expiry path; requires no UI context. If a sign-in attempt is in
// flight, the sign-out still applies immediately and re-applies once the
// attempt completes (last writer wins).
func (m *Manager) SignOut(ctx context.Context) error {
	if !m.started.Load() {
		return ErrNotStarted
	}
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.Lock()
	if m.inflight > 0 {
		m.pendingSignOut = true
	}
	m.teardownLocked(ctx)
	m.mu.Unlock()

	if err := m.provider.SignOut(ctx); err != nil {
		return err
	}
	return nil
}

// DeleteAccount permanently removes the current account upstream, then
// tears the local session down.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	m.mu.Lock()
	active := m.state == StateAuthenticated
	m.mu.Unlock()
	if !active {
		return ErrNoActiveSession
	}

	if err := m.provider.DeleteAccount(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.teardownLocked(ctx)
	m.mu.Unlock()
	return nil
}

// CurrentIdentity returns the current identity. Pure read.
func (m *Manager) CurrentIdentity() identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ident
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SessionData returns a snapshot of the full session state.
func (m *Manager) SessionData() Data {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Data{
		State:           m.state,
		Identity:        m.ident,
		Record:          m.record.clone(),
		NeedsProfile:    m.needsProfile,
		Privileges:      m.privileges,
		HasLocalSession: m.hasLocal,
		Ready:           m.ready.Load(),
	}
}

// IsReady reports whether the resolution race has settled. Monotonic.
func (m *Manager) IsReady() bool {
	return m.ready.Load()
}

// HasLocalSession reports whether persisted session evidence exists,
// independent of whether it verified upstream.
func (m *Manager) HasLocalSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasLocal
}

// completeSignInLocked runs the shared success side effects for
// interactive sign-in, sign-up and auto-login. Caller holds m.mu.
func (m *Manager) completeSignInLocked(ctx context.Context, ident identity.Identity, identifier, secret string) {
	if err := m.vault.Save(ctx, identifier, secret); err != nil {
		m.log.WarnContext(ctx, "session: saving credential failed", "error", err)
	}
	if err := m.vault.SaveSessionToken(ctx, uuid.NewString()); err != nil {
		m.log.WarnContext(ctx, "session: saving session evidence failed", "error", err)
	}
	m.hasLocal = true

	// Re-auth from an active session replays through Unauthenticated so
	// listeners never see an illegal transition.
	if m.state.Active() {
		m.apply(StateUnauthenticated, identity.None())
	}

	m.markResolved()
	m.record = newRecord(m.now())
	m.lastPersist = m.now()
	m.apply(StateAuthenticated, ident)

	go m.resolvePrivileges(ident)
}

// teardownLocked clears the record, the vault slots and the current
// identity, transitioning to Unauthenticated. Caller holds m.mu.
func (m *Manager) teardownLocked(ctx context.Context) {
	m.record = nil
	m.needsProfile = false
	m.privileges = identity.NoPrivileges()
	m.hasLocal = false
	m.stopBackgroundTimerLocked()

	if err := m.vault.Clear(ctx); err != nil {
		m.log.WarnContext(ctx, "session: clearing credential failed", "error", err)
	}
	if err := m.vault.ClearSessionToken(ctx); err != nil {
		m.log.WarnContext(ctx, "session: clearing session evidence failed", "error", err)
	}

	m.markResolved()
	if m.state != StateUnauthenticated {
		m.apply(StateUnauthenticated, identity.None())
	}
}

// remoteSignOut invalidates the remote session on a best-effort basis,
// used where no interactive caller is waiting for the result.
func (m *Manager) remoteSignOut() {
	if err := m.provider.SignOut(context.Background()); err != nil {
		m.log.Warn("session: remote sign-out failed", "error", err)
	}
}

// markResolved flips the first-real-event flag and cancels the remaining
// resolution race paths. Idempotent. Caller holds m.mu.
func (m *Manager) markResolved() {
	if m.resolved.CompareAndSwap(false, true) {
		if m.raceCancel != nil {
			m.raceCancel()
		}
	}
}

// apply performs a state transition. Caller holds m.mu. Illegal
// transitions are dropped and logged: they indicate a bug, and dropping is
// safer than corrupting listener ordering.
func (m *Manager) apply(to State, ident identity.Identity) {
	from := m.state
	if from == to {
		m.ident = ident
		return
	}
	if !canTransition(from, to) {
		m.log.Error("session: illegal transition dropped", "from", string(from), "to", string(to))
		return
	}

	m.state = to
	m.ident = ident
	if to != StateUnknown {
		m.ready.Store(true)
	}

	m.enqueue(Change{From: from, To: to, Identity: ident})
}
