package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// ---- session ----

type stubSession struct {
	state       domain.SessionState
	identity    *domain.Identity
	registerFn  func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error)
	provisionFn func(ctx context.Context, identityID string, in ports.RegisterInput) error
	loginFn     func(ctx context.Context, email, password string) (*domain.Identity, error)
	logoutFn    func(ctx context.Context) error
	refreshFn   func(ctx context.Context) (*domain.Identity, error)
}

func (s *stubSession) State() domain.SessionState {
	if s.state == "" {
		if s.identity != nil {
			return domain.SessionActive
		}
		return domain.SessionAbsent
	}
	return s.state
}

func (s *stubSession) CurrentIdentity() *domain.Identity { return s.identity }

func (s *stubSession) Can(c domain.Capability) bool {
	return s.identity != nil && s.identity.Role.Allows(c)
}

func (s *stubSession) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	id, err := s.registerFn(ctx, in)
	if err == nil {
		s.identity = id
	}
	return id, err
}

func (s *stubSession) ProvisionProfile(ctx context.Context, identityID string, in ports.RegisterInput) error {
	return s.provisionFn(ctx, identityID, in)
}

func (s *stubSession) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	id, err := s.loginFn(ctx, email, password)
	if err == nil {
		s.identity = id
	}
	return id, err
}

func (s *stubSession) Logout(ctx context.Context) error {
	s.identity = nil
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubSession) Refresh(ctx context.Context) (*domain.Identity, error) {
	return s.refreshFn(ctx)
}

// ---- profile editor ----

type stubEditor struct {
	state    domain.GateState
	verifyFn func(ctx context.Context, password string) (bool, error)
	submitFn func(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.Identity, error)
	beginErr error
}

func (s *stubEditor) State() domain.GateState {
	if s.state == "" {
		return domain.GateIdle
	}
	return s.state
}

func (s *stubEditor) BeginSensitiveEdit() error {
	if s.beginErr != nil {
		return s.beginErr
	}
	s.state = domain.GateAwaitingVerification
	return nil
}

func (s *stubEditor) Verify(ctx context.Context, password string) (bool, error) {
	ok, err := s.verifyFn(ctx, password)
	if ok {
		s.state = domain.GateVerified
	}
	return ok, err
}

func (s *stubEditor) Cancel() { s.state = domain.GateIdle }

func (s *stubEditor) Submit(ctx context.Context, req domain.ProfileUpdateRequest) (*domain.Identity, error) {
	return s.submitFn(ctx, req)
}

func (s *stubEditor) CredentialDisplay() string {
	if s.State() == domain.GateVerified {
		return "proven"
	}
	return "********"
}

// ---- catalog ----

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (s *stubCatalog) Products(context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubCatalog) Product(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

var glazed = domain.Product{ID: "p1", Name: "Glazed", Price: 2500, Category: "donut"}

func catalogWithGlazed() *stubCatalog {
	return &stubCatalog{products: []domain.Product{glazed}}
}

// ---- cart ----

type stubCart struct {
	items    []domain.CartItem
	addFn    func(ctx context.Context, p domain.ProductSnapshot, in ports.AddToCartInput) (domain.CartItem, error)
	writeErr error
}

func (s *stubCart) Items() []domain.CartItem { return s.items }

func (s *stubCart) Add(ctx context.Context, p domain.ProductSnapshot, in ports.AddToCartInput) (domain.CartItem, error) {
	item, err := s.addFn(ctx, p, in)
	if err == nil {
		s.items = append(s.items, item)
	}
	return item, err
}

func (s *stubCart) Remove(_ context.Context, itemID string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

func (s *stubCart) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	if quantity <= 0 {
		return s.Remove(ctx, itemID)
	}
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Quantity = quantity
			s.items[i].LineTotal = s.items[i].Product.Price.Times(quantity)
		}
	}
	return nil
}

func (s *stubCart) Clear(context.Context) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.items = nil
	return nil
}

func (s *stubCart) TotalPrice() domain.Money {
	var total domain.Money
	for _, it := range s.items {
		total += it.LineTotal
	}
	return total
}

func (s *stubCart) TotalItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *stubCart) CheckoutLines() []domain.CheckoutLine {
	lines := make([]domain.CheckoutLine, 0, len(s.items))
	for _, it := range s.items {
		lines = append(lines, domain.CheckoutLine{ProductID: it.ProductID, Quantity: it.Quantity, TotalPrice: it.LineTotal})
	}
	return lines
}

// ---- order history ----

type stubHistory struct {
	historyFn func(ctx context.Context) (*ports.OrderHistory, error)
}

func (s *stubHistory) History(ctx context.Context) (*ports.OrderHistory, error) {
	return s.historyFn(ctx)
}

// ---- pinger ----

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// ---- helpers ----

func newContext(t *testing.T, method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
