package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

var errTransport = errors.New("connection refused")

// ---------------------------------------------------------------------------
// Identity provider stub
// ---------------------------------------------------------------------------

type stubAccount struct {
	user     ports.ProviderUser
	password string
}

type stubProvider struct {
	mu       sync.Mutex
	accounts map[string]*stubAccount // by email
	sessions map[string]string       // token -> email
	seq      int

	createErr     error
	authErr       error
	currentErr    error
	updateErr     error
	invalidateErr error
	// pendingConfirmation makes CreateIdentity return no usable identity.
	pendingConfirmation bool
	// currentHook runs before CurrentIdentity answers.
	currentHook func(ctx context.Context) error

	calls       int
	invalidated []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		accounts: make(map[string]*stubAccount),
		sessions: make(map[string]string),
	}
}

func (p *stubProvider) seed(id, email, password string, meta ports.IdentityMetadata) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[email] = &stubAccount{
		user:     ports.ProviderUser{ID: id, Email: email, Metadata: meta},
		password: password,
	}
}

func (p *stubProvider) issueLocked(email string) string {
	p.seq++
	token := fmt.Sprintf("tok-%d", p.seq)
	p.sessions[token] = email
	return token
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubProvider) CreateIdentity(_ context.Context, in ports.NewIdentity) (*ports.ProviderSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.createErr != nil {
		return nil, p.createErr
	}
	if _, exists := p.accounts[in.Email]; exists {
		return nil, domain.ErrIdentityExists
	}
	p.seq++
	acc := &stubAccount{
		user:     ports.ProviderUser{ID: fmt.Sprintf("user-%d", p.seq), Email: in.Email, Metadata: in.Metadata},
		password: in.Password,
	}
	p.accounts[in.Email] = acc
	if p.pendingConfirmation {
		return &ports.ProviderSession{}, nil
	}
	user := acc.user
	return &ports.ProviderSession{Token: p.issueLocked(in.Email), User: &user}, nil
}

func (p *stubProvider) Authenticate(_ context.Context, email, password string) (*ports.ProviderSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.authErr != nil {
		return nil, p.authErr
	}
	acc, ok := p.accounts[email]
	if !ok || acc.password != password {
		return nil, domain.ErrAuthenticationFailed
	}
	user := acc.user
	return &ports.ProviderSession{Token: p.issueLocked(email), User: &user}, nil
}

func (p *stubProvider) CurrentIdentity(ctx context.Context, token string) (*ports.ProviderUser, error) {
	if p.currentHook != nil {
		if err := p.currentHook(ctx); err != nil {
			return nil, err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.currentErr != nil {
		return nil, p.currentErr
	}
	email, ok := p.sessions[token]
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}
	user := p.accounts[email].user
	return &user, nil
}

func (p *stubProvider) UpdateIdentity(_ context.Context, token string, u ports.IdentityUpdate) (*ports.ProviderUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.updateErr != nil {
		return nil, p.updateErr
	}
	email, ok := p.sessions[token]
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}
	acc := p.accounts[email]
	if u.Password != nil {
		acc.password = *u.Password
	}
	if u.Metadata != nil {
		role := acc.user.Metadata.Role
		acc.user.Metadata = *u.Metadata
		acc.user.Metadata.Role = role
	}
	if u.Email != nil && *u.Email != email {
		delete(p.accounts, email)
		acc.user.Email = *u.Email
		p.accounts[*u.Email] = acc
		p.sessions[token] = *u.Email
	}
	user := acc.user
	return &user, nil
}

func (p *stubProvider) InvalidateSession(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.invalidated = append(p.invalidated, token)
	if p.invalidateErr != nil {
		return p.invalidateErr
	}
	delete(p.sessions, token)
	return nil
}

// ---------------------------------------------------------------------------
// Customer / order repository stubs
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	products []domain.Product
	err      error
}

func (r *stubProductRepo) List(context.Context) ([]domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.products, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubCustomerRepo struct {
	byUser    map[string]*domain.CustomerRecord
	insertErr error
	findErr   error
	updateErr error
	calls     int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byUser: make(map[string]*domain.CustomerRecord)}
}

func (r *stubCustomerRepo) Insert(_ context.Context, rec *domain.CustomerRecord) (*domain.CustomerRecord, error) {
	r.calls++
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	clone := *rec
	clone.CustomerID = "cust-" + rec.UserID
	r.byUser[rec.UserID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCustomerRepo) FindByUserID(_ context.Context, userID string) (*domain.CustomerRecord, error) {
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	rec, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, customerID string, u ports.CustomerUpdate) error {
	r.calls++
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, rec := range r.byUser {
		if rec.CustomerID != customerID {
			continue
		}
		if u.FullName != nil {
			rec.FullName = *u.FullName
		}
		if u.Phone != nil {
			rec.Phone = *u.Phone
		}
		if u.Address != nil {
			rec.Address = *u.Address
		}
		return nil
	}
	return domain.ErrNotFound
}

type stubOrderRepo struct {
	byCustomer map[string][]domain.Order
	err        error
}

func (r *stubOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byCustomer[customerID], nil
}

// ---------------------------------------------------------------------------
// KV store stub
// ---------------------------------------------------------------------------

type memKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	readErr  error
	writeErr error
	delErr   error
	writes   int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (s *memKV) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, false, s.readErr
	}
	v, ok := s.data[key]
	return append([]byte(nil), v...), ok, nil
}

func (s *memKV) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes++
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *memKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.data, key)
	return nil
}

func (s *memKV) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// blockingKV parks the first Read of key until release is closed.
type blockingKV struct {
	*memKV
	key     string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingKV(key string) *blockingKV {
	return &blockingKV{
		memKV:   newMemKV(),
		key:     key,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *blockingKV) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if key == s.key {
		s.once.Do(func() {
			close(s.entered)
			<-s.release
		})
	}
	return s.memKV.Read(ctx, key)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type recordingObserver struct {
	seen []*domain.Identity
}

func (o *recordingObserver) IdentityChanged(_ context.Context, id *domain.Identity) {
	o.seen = append(o.seen, id)
}

func strPtr(s string) *string { return &s }

type fixture struct {
	provider  *stubProvider
	customers *stubCustomerRepo
	kv        *memKV
	session   *SessionManager
}

func newFixture() *fixture {
	f := &fixture{
		provider:  newStubProvider(),
		customers: newStubCustomerRepo(),
		kv:        newMemKV(),
	}
	f.session = NewSessionManager(f.provider, f.customers, f.kv, 0, discardLogger)
	return f
}

// loggedIn seeds alice with a customer row and logs her in.
func (f *fixture) loggedIn(t *testing.T) *domain.Identity {
	t.Helper()
	f.provider.seed("user-alice", "alice@example.com", "old-pass", ports.IdentityMetadata{Name: "Alice", Phone: "0917", Address: "Manila"})
	f.customers.byUser["user-alice"] = &domain.CustomerRecord{CustomerID: "cust-alice", UserID: "user-alice", FullName: "Alice"}
	id, err := f.session.Login(context.Background(), "alice@example.com", "old-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return id
}
