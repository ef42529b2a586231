package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// CredentialPlaceholder is shown instead of the credential until it is verified.
// Its length carries no information about the real credential.
const CredentialPlaceholder = "********"

// ProfileGate guards email and password changes behind a re-proof of the
// current credential within the same edit session:
//
//	Idle -> AwaitingVerification -> Verified -> Idle
//
// Cancel returns to Idle from any state and discards pending sensitive edits.
type ProfileGate struct {
	session  *SessionManager
	verifier ports.CredentialVerifier
	log      zerolog.Logger

	mu    sync.Mutex
	state domain.GateState
	// proven is the credential the user re-entered during verification.
	proven []byte
}

// NewProfileGate builds a gate persisting through session. A nil verifier
// falls back to re-authentication through the session manager.
func NewProfileGate(session *SessionManager, verifier ports.CredentialVerifier, log zerolog.Logger) *ProfileGate {
	if verifier == nil {
		verifier = session
	}
	return &ProfileGate{
		session:  session,
		verifier: verifier,
		log:      log,
		state:    domain.GateIdle,
	}
}

func (g *ProfileGate) State() domain.GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// BeginSensitiveEdit switches the form into email/password editing.
func (g *ProfileGate) BeginSensitiveEdit() error {
	if g.session.CurrentIdentity() == nil {
		return domain.ErrNoActiveSession
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == domain.GateIdle {
		g.state = domain.GateAwaitingVerification
	}
	return nil
}

// Verify re-proves the current credential. A false result is a wrong
// password; the gate stays in AwaitingVerification.
func (g *ProfileGate) Verify(ctx context.Context, currentPassword string) (bool, error) {
	g.mu.Lock()
	state := g.state
	g.mu.Unlock()

	switch state {
	case domain.GateVerified:
		return true, nil
	case domain.GateIdle:
		return false, fmt.Errorf("verify: %w: sensitive edit not started", domain.ErrInvalidInput)
	}

	if !g.verifier.VerifyCredential(ctx, currentPassword) {
		return false, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// A Cancel may have run while the provider was answering.
	if g.state != domain.GateAwaitingVerification {
		return false, nil
	}
	g.state = domain.GateVerified
	g.proven = []byte(currentPassword)
	return true, nil
}

// Cancel discards every pending sensitive edit and returns to Idle.
func (g *ProfileGate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

// CredentialDisplay returns what the password field shows: the placeholder
// until verified, then the credential proved during verification.
func (g *ProfileGate) CredentialDisplay() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != domain.GateVerified || len(g.proven) == 0 {
		return CredentialPlaceholder
	}
	return string(g.proven)
}

// Submit validates and persists a profile update. Gate and confirmation
// checks run locally and never reach a collaborator.
func (g *ProfileGate) Submit(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.Identity, error) {
	current := g.session.CurrentIdentity()
	if current == nil {
		return nil, domain.ErrNoActiveSession
	}

	g.mu.Lock()
	state := g.state
	proven := string(g.proven)
	g.mu.Unlock()

	emailChanged := req.Email != nil && *req.Email != current.Email
	passwordChanged := req.Password != nil && *req.Password != "" && *req.Password != proven

	if (emailChanged || passwordChanged) && state != domain.GateVerified {
		g.log.Debug().Str("gate_state", string(state)).Msg("sensitive profile change rejected")
		return nil, domain.ErrVerificationRequired
	}
	if req.Password != nil && *req.Password != "" && (req.ConfirmPassword == nil || *req.ConfirmPassword != *req.Password) {
		return nil, domain.ErrPasswordMismatch
	}

	changes := ProfileChanges{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		verified: state == domain.GateVerified,
	}
	if emailChanged {
		changes.Email = req.Email
	}
	if passwordChanged {
		changes.Password = req.Password
	}

	identity, err := g.session.UpdateProfile(ctx, changes)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.resetLocked()
	g.mu.Unlock()
	return identity, nil
}

func (g *ProfileGate) resetLocked() {
	for i := range g.proven {
		g.proven[i] = 0
	}
	g.proven = nil
	g.state = domain.GateIdle
}

// IdentityChanged drops any edit session that belonged to a previous identity.
func (g *ProfileGate) IdentityChanged(_ context.Context, _ *domain.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

var (
	_ ports.ProfileEditor    = (*ProfileGate)(nil)
	_ ports.IdentityObserver = (*ProfileGate)(nil)
)
