// Package identity is the storefront's identity provider: bcrypt-hashed
// accounts in the user store and stateless HS256 session tokens whose
// invalidation is tracked in a revocation list.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

const (
	issuer            = "storefront"
	defaultSessionTTL = 24 * time.Hour
)

type Config struct {
	Secret     string
	SessionTTL time.Duration
	// RequireConfirmation withholds the identity from CreateIdentity and
	// rejects logins until the account is confirmed.
	RequireConfirmation bool
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type Provider struct {
	users       ports.UserStore
	revocations ports.TokenRevocations
	secret      []byte
	ttl         time.Duration
	confirm     bool
	cost        int

	now   func() time.Time
	newID func() string
}

func NewProvider(users ports.UserStore, revocations ports.TokenRevocations, cfg Config) (*Provider, error) {
	if cfg.Secret == "" {
		return nil, errors.New("identity provider: secret is required")
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{
		users:       users,
		revocations: revocations,
		secret:      []byte(cfg.Secret),
		ttl:         ttl,
		confirm:     cfg.RequireConfirmation,
		cost:        cost,
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

func (p *Provider) CreateIdentity(ctx context.Context, in ports.NewIdentity) (*ports.ProviderSession, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("create identity: %w: email and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	meta := in.Metadata
	meta.Role = string(domain.ParseRole(meta.Role))
	account, err := p.users.Create(ctx, &ports.UserAccount{
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     meta,
		Confirmed:    !p.confirm,
	})
	if err != nil {
		return nil, err
	}

	if p.confirm {
		// Pending confirmation: no session and no usable identity yet.
		return &ports.ProviderSession{}, nil
	}
	token, err := p.issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &ports.ProviderSession{Token: token, User: toProviderUser(account)}, nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (*ports.ProviderSession, error) {
	account, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	if !account.Confirmed {
		return nil, fmt.Errorf("%w: email not confirmed", domain.ErrAuthenticationFailed)
	}

	token, err := p.issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &ports.ProviderSession{Token: token, User: toProviderUser(account)}, nil
}

func (p *Provider) CurrentIdentity(ctx context.Context, token string) (*ports.ProviderUser, error) {
	account, err := p.accountFor(ctx, token)
	if err != nil {
		return nil, err
	}
	return toProviderUser(account), nil
}

// UpdateIdentity changes email, password or metadata. The stored role is
// kept whatever the update carries.
func (p *Provider) UpdateIdentity(ctx context.Context, token string, u ports.IdentityUpdate) (*ports.ProviderUser, error) {
	account, err := p.accountFor(ctx, token)
	if err != nil {
		return nil, err
	}

	patch := ports.UserAccountUpdate{Email: u.Email}
	if u.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*u.Password), p.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		patch.PasswordHash = &h
	}
	if u.Metadata != nil {
		meta := *u.Metadata
		meta.Role = account.Metadata.Role
		patch.Metadata = &meta
	}

	updated, err := p.users.Update(ctx, account.ID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}
	return toProviderUser(updated), nil
}

// InvalidateSession revokes token for the rest of its lifetime. Tokens that
// are already invalid need no revocation.
func (p *Provider) InvalidateSession(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return nil
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(p.now())
	}
	return p.revocations.Revoke(ctx, claims.ID, ttl)
}

func (p *Provider) accountFor(ctx context.Context, token string) (*ports.UserAccount, error) {
	claims, err := p.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	revoked, err := p.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: session revoked", domain.ErrAuthenticationFailed)
	}

	account, err := p.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}
	return account, nil
}

func (p *Provider) issue(subject string) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        p.newID(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (p *Provider) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func toProviderUser(a *ports.UserAccount) *ports.ProviderUser {
	return &ports.ProviderUser{ID: a.ID, Email: a.Email, Metadata: a.Metadata}
}

var _ ports.IdentityProvider = (*Provider)(nil)
