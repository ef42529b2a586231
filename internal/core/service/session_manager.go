package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

const (
	sessionTokenKey         = "session:token"
	defaultHydrationTimeout = 5 * time.Second
)

// SessionManager is the single authority for the current identity.
//
// Every user-initiated transition (register, login, logout) bumps an epoch.
// Results of remote calls are committed only if the epoch they started under
// is still current, so a late hydration never overwrites a newer login or logout.
type SessionManager struct {
	provider         ports.IdentityProvider
	customers        ports.CustomerRepository
	store            ports.KVStore
	hydrationTimeout time.Duration
	log              zerolog.Logger

	mu        sync.Mutex
	state     domain.SessionState
	identity  *domain.Identity
	token     string
	epoch     uint64
	observers []ports.IdentityObserver

	// notifyMu orders observer deliveries. A delivery reads the identity when
	// it runs, so the last delivery always carries the latest identity.
	notifyMu sync.Mutex
}

func NewSessionManager(
	provider ports.IdentityProvider,
	customers ports.CustomerRepository,
	store ports.KVStore,
	hydrationTimeout time.Duration,
	log zerolog.Logger,
) *SessionManager {
	if hydrationTimeout <= 0 {
		hydrationTimeout = defaultHydrationTimeout
	}
	return &SessionManager{
		provider:         provider,
		customers:        customers,
		store:            store,
		hydrationTimeout: hydrationTimeout,
		log:              log,
		state:            domain.SessionAbsent,
	}
}

// Subscribe registers an observer for identity changes. Observers run
// synchronously, in registration order, after the change is committed.
// Deliveries never overlap and each one carries the identity current at
// delivery time, so observers converge on the session even when transitions
// race. Observers must not start a session transition themselves.
func (m *SessionManager) Subscribe(o ports.IdentityObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// State returns the current session state.
func (m *SessionManager) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentIdentity returns a copy of the current identity, or nil if nobody is logged in.
func (m *SessionManager) CurrentIdentity() *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneIdentity(m.identity)
}

// Can reports whether the current identity's role grants c. Always false when logged out.
func (m *SessionManager) Can(c domain.Capability) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity != nil && m.identity.Role.Allows(c)
}

type hydration struct {
	identity *domain.Identity
	token    string
	err      error
}

// Hydrate restores a persisted provider session on startup. It always resolves
// to active or absent: if the provider does not answer within the hydration
// timeout the session is treated as absent and the late answer is dropped.
func (m *SessionManager) Hydrate(ctx context.Context) domain.SessionState {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.state = domain.SessionLoading
	m.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, m.hydrationTimeout)
	defer cancel()

	done := make(chan hydration, 1)
	go func() {
		identity, token, err := m.resolvePersistedSession(callCtx)
		done <- hydration{identity: identity, token: token, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			m.log.Warn().Err(res.err).Msg("session hydration failed, continuing logged out")
			m.hydrateAbsent(ctx, epoch)
			return m.State()
		}
		if res.identity == nil {
			m.hydrateAbsent(ctx, epoch)
			return m.State()
		}
		if m.commit(epoch, res.identity, res.token) {
			m.log.Info().Str("identity_id", res.identity.ID).Msg("session hydrated")
			m.notify(ctx)
		}
		return m.State()
	case <-callCtx.Done():
		m.log.Warn().Dur("timeout", m.hydrationTimeout).Msg("session hydration unresolved, continuing logged out")
		m.hydrateAbsent(ctx, epoch)
		return m.State()
	}
}

func (m *SessionManager) hydrateAbsent(ctx context.Context, epoch uint64) {
	if m.settleAbsent(epoch) {
		m.notify(ctx)
	}
}

func (m *SessionManager) resolvePersistedSession(ctx context.Context) (*domain.Identity, string, error) {
	raw, ok, err := m.store.Read(ctx, sessionTokenKey)
	if err != nil {
		return nil, "", remoteErr("hydrate: read session token", err)
	}
	token := strings.TrimSpace(string(raw))
	if !ok || token == "" {
		return nil, "", nil
	}

	user, err := m.provider.CurrentIdentity(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			// Expired or revoked: forget it so the next start does not retry it.
			if delErr := m.store.Delete(ctx, sessionTokenKey); delErr != nil {
				m.log.Warn().Err(delErr).Msg("failed to delete stale session token")
			}
			return nil, "", nil
		}
		return nil, "", remoteErr("hydrate: fetch identity", err)
	}
	return identityFromProvider(user), token, nil
}

// Register allocates an identity with the provider and then writes the
// customer record. The two writes are not atomic: if the second fails the
// returned *domain.ProvisioningError names the identity so the caller can
// retry with ProvisionProfile instead of registering again.
func (m *SessionManager) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	epoch := m.begin()

	sess, err := m.provider.CreateIdentity(ctx, ports.NewIdentity{
		Email:    in.Email,
		Password: in.Password,
		Metadata: ports.IdentityMetadata{
			Name:    in.Name,
			Phone:   in.Phone,
			Address: in.Address,
			Role:    string(domain.RoleCustomer),
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrIdentityExists) {
			return nil, fmt.Errorf("register: %w", err)
		}
		return nil, remoteErr("register: create identity", err)
	}
	if sess == nil || sess.User == nil || sess.User.ID == "" {
		return nil, domain.ErrRegistrationIncomplete
	}

	if err := m.ProvisionProfile(ctx, sess.User.ID, in); err != nil {
		m.log.Error().Err(err).Str("identity_id", sess.User.ID).Msg("customer record not provisioned")
		// The session is never activated; do not leave it valid remotely.
		if sess.Token != "" {
			if invErr := m.provider.InvalidateSession(ctx, sess.Token); invErr != nil {
				m.log.Warn().Err(invErr).Msg("failed to invalidate unprovisioned session")
			}
		}
		return nil, err
	}

	identity := identityFromProvider(sess.User)
	m.log.Info().Str("identity_id", identity.ID).Msg("identity registered")

	if sess.Token == "" {
		return identity, nil
	}
	if err := m.activate(ctx, epoch, identity, sess.Token); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return identity, nil
}

// ProvisionProfile writes the customer record for an existing identity.
func (m *SessionManager) ProvisionProfile(ctx context.Context, identityID string, in ports.RegisterInput) error {
	if identityID == "" {
		return fmt.Errorf("provision profile: %w: identity id is required", domain.ErrInvalidInput)
	}
	_, err := m.customers.Insert(ctx, &domain.CustomerRecord{
		UserID:   identityID,
		FullName: in.Name,
		Phone:    in.Phone,
		Address:  in.Address,
	})
	if err != nil {
		return &domain.ProvisioningError{IdentityID: identityID, Err: remoteErr("insert customer", err)}
	}
	return nil
}

// Login authenticates and then re-fetches the identity from the provider so
// role and metadata come from the authoritative record.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	epoch := m.begin()

	sess, err := m.provider.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			return nil, fmt.Errorf("login: %w", err)
		}
		return nil, remoteErr("login: authenticate", err)
	}
	if sess == nil || sess.Token == "" {
		return nil, fmt.Errorf("login: %w", domain.ErrAuthenticationFailed)
	}

	user, err := m.provider.CurrentIdentity(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			return nil, fmt.Errorf("login: %w", err)
		}
		return nil, remoteErr("login: fetch identity", err)
	}

	identity := identityFromProvider(user)
	if err := m.activate(ctx, epoch, identity, sess.Token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	m.log.Info().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("logged in")
	return identity, nil
}

// Logout clears the session unconditionally. Remote invalidation failures are
// logged and returned as a warning; the client is logged out either way.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.epoch++
	token := m.token
	m.identity = nil
	m.token = ""
	m.state = domain.SessionAbsent
	m.mu.Unlock()

	var warn error
	if token != "" {
		if err := m.provider.InvalidateSession(ctx, token); err != nil {
			m.log.Warn().Err(err).Msg("remote session invalidation failed")
			warn = remoteErr("logout: invalidate session", err)
		}
	}
	if err := m.store.Delete(ctx, sessionTokenKey); err != nil {
		m.log.Warn().Err(err).Msg("failed to delete persisted session token")
		warn = errors.Join(warn, remoteErr("logout: delete session token", err))
	}

	m.notify(ctx)
	m.log.Info().Msg("logged out")
	return warn
}

// Refresh re-reads the current identity from the provider. A failed refresh
// destroys the session.
func (m *SessionManager) Refresh(ctx context.Context) (*domain.Identity, error) {
	m.mu.Lock()
	token, epoch := m.token, m.epoch
	m.mu.Unlock()
	if token == "" {
		return nil, domain.ErrNoActiveSession
	}

	user, err := m.provider.CurrentIdentity(ctx, token)
	if err != nil {
		if m.settleAbsent(epoch) {
			if delErr := m.store.Delete(ctx, sessionTokenKey); delErr != nil {
				m.log.Warn().Err(delErr).Msg("failed to delete persisted session token")
			}
			m.notify(ctx)
		}
		m.log.Warn().Err(err).Msg("session refresh failed, session destroyed")
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			return nil, fmt.Errorf("refresh: %w", err)
		}
		return nil, remoteErr("refresh: fetch identity", err)
	}

	identity := identityFromProvider(user)
	if !m.commit(epoch, identity, token) {
		return nil, fmt.Errorf("refresh: %w", domain.ErrSessionSuperseded)
	}
	m.notify(ctx)
	return cloneIdentity(identity), nil
}

// VerifyCredential re-authenticates the current identity with password. It
// never replaces the active session and treats every failure as "not verified".
func (m *SessionManager) VerifyCredential(ctx context.Context, password string) bool {
	current := m.CurrentIdentity()
	if current == nil || password == "" {
		return false
	}

	check, err := m.provider.Authenticate(ctx, current.Email, password)
	if err != nil {
		m.log.Debug().Err(err).Str("identity_id", current.ID).Msg("credential verification failed")
		return false
	}
	if check != nil && check.Token != "" {
		if err := m.provider.InvalidateSession(ctx, check.Token); err != nil {
			m.log.Warn().Err(err).Msg("failed to invalidate verification session")
		}
	}
	return true
}

// ProfileChanges is a partial profile update. Email and password changes are
// only accepted when built by a ProfileGate that observed a verification.
type ProfileChanges struct {
	Name     *string
	Phone    *string
	Address  *string
	Email    *string
	Password *string

	verified bool
}

func (c ProfileChanges) sensitive(current *domain.Identity) bool {
	if c.Email != nil && *c.Email != current.Email {
		return true
	}
	return c.Password != nil && *c.Password != ""
}

func (c ProfileChanges) touchesProfile() bool {
	return c.Name != nil || c.Phone != nil || c.Address != nil
}

// UpdateProfile persists profile changes with the provider and then the
// customer record. The provider's answer becomes the current identity as soon
// as the provider accepts it, so a failing customer record write still leaves
// the session on the new email and metadata; that failure is returned on its
// own.
func (m *SessionManager) UpdateProfile(ctx context.Context, changes ProfileChanges) (*domain.Identity, error) {
	m.mu.Lock()
	current, token, epoch := cloneIdentity(m.identity), m.token, m.epoch
	m.mu.Unlock()
	if current == nil {
		return nil, domain.ErrNoActiveSession
	}
	if changes.sensitive(current) && !changes.verified {
		return nil, domain.ErrVerificationRequired
	}

	update := ports.IdentityUpdate{}
	if changes.Email != nil && *changes.Email != current.Email {
		update.Email = changes.Email
	}
	if changes.Password != nil && *changes.Password != "" {
		update.Password = changes.Password
	}
	if changes.touchesProfile() {
		update.Metadata = &ports.IdentityMetadata{
			Name:    valueOr(changes.Name, current.DisplayName),
			Phone:   valueOr(changes.Phone, current.Phone),
			Address: valueOr(changes.Address, current.Address),
		}
	}

	user, err := m.provider.UpdateIdentity(ctx, token, update)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) || errors.Is(err, domain.ErrIdentityExists) {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		return nil, remoteErr("update profile: update identity", err)
	}

	identity := identityFromProvider(user)
	if !m.commit(epoch, identity, token) {
		return nil, fmt.Errorf("update profile: %w", domain.ErrSessionSuperseded)
	}
	m.notify(ctx)

	if changes.touchesProfile() {
		if err := m.updateCustomer(ctx, current.ID, changes); err != nil {
			m.log.Error().Err(err).Str("identity_id", identity.ID).Msg("identity updated but customer record is stale")
			return nil, err
		}
	}

	m.log.Info().Str("identity_id", identity.ID).Bool("credentials_changed", update.Email != nil || update.Password != nil).Msg("profile updated")
	return cloneIdentity(identity), nil
}

func (m *SessionManager) updateCustomer(ctx context.Context, identityID string, changes ProfileChanges) error {
	rec, err := m.customers.FindByUserID(ctx, identityID)
	if err != nil {
		return remoteErr("update profile: find customer", err)
	}
	if err := m.customers.Update(ctx, rec.CustomerID, ports.CustomerUpdate{
		FullName: changes.Name,
		Phone:    changes.Phone,
		Address:  changes.Address,
	}); err != nil {
		return remoteErr("update profile: update customer", err)
	}
	return nil
}

// begin starts a user-initiated transition and returns its epoch.
func (m *SessionManager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	return m.epoch
}

// activate installs a new session and persists its token. The previous
// session, if any, is invalidated best-effort.
func (m *SessionManager) activate(ctx context.Context, epoch uint64, identity *domain.Identity, token string) error {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		if err := m.provider.InvalidateSession(ctx, token); err != nil {
			m.log.Warn().Err(err).Msg("failed to invalidate superseded session")
		}
		return domain.ErrSessionSuperseded
	}
	previous := m.token
	m.identity = cloneIdentity(identity)
	m.token = token
	m.state = domain.SessionActive
	m.mu.Unlock()

	if previous != "" && previous != token {
		if err := m.provider.InvalidateSession(ctx, previous); err != nil {
			m.log.Warn().Err(err).Msg("failed to invalidate previous session")
		}
	}
	if err := m.store.Write(ctx, sessionTokenKey, []byte(token)); err != nil {
		// The session stays active in memory; it just won't survive a restart.
		m.log.Warn().Err(err).Msg("failed to persist session token")
	}
	m.notify(ctx)
	return nil
}

// commit installs identity and token if epoch is still current.
func (m *SessionManager) commit(epoch uint64, identity *domain.Identity, token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return false
	}
	m.identity = cloneIdentity(identity)
	m.token = token
	m.state = domain.SessionActive
	return true
}

// settleAbsent clears the session if epoch is still current and bumps the
// epoch so anything still in flight for it is discarded.
func (m *SessionManager) settleAbsent(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return false
	}
	m.epoch++
	m.identity = nil
	m.token = ""
	m.state = domain.SessionAbsent
	return true
}

// notify delivers the current identity to every observer.
func (m *SessionManager) notify(ctx context.Context) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	identity := cloneIdentity(m.identity)
	observers := append([]ports.IdentityObserver(nil), m.observers...)
	m.mu.Unlock()
	for _, o := range observers {
		o.IdentityChanged(ctx, cloneIdentity(identity))
	}
}

// identityFromProvider merges the provider's core fields with its metadata.
func identityFromProvider(u *ports.ProviderUser) *domain.Identity {
	if u == nil {
		return nil
	}
	return &domain.Identity{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.Metadata.Name,
		Phone:       u.Metadata.Phone,
		Address:     u.Metadata.Address,
		Role:        domain.ParseRole(u.Metadata.Role),
	}
}

func cloneIdentity(id *domain.Identity) *domain.Identity {
	if id == nil {
		return nil
	}
	clone := *id
	return &clone
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// remoteErr wraps a collaborator failure. Known domain errors pass through.
func remoteErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrRemoteUnavailable),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAuthenticationFailed),
		errors.Is(err, domain.ErrIdentityExists):
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRemoteUnavailable, err)
}

var (
	_ ports.SessionService     = (*SessionManager)(nil)
	_ ports.CredentialVerifier = (*SessionManager)(nil)
)
