package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/api/handler"
	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

type routerSession struct {
	identity *domain.Identity
}

func (s *routerSession) State() domain.SessionState {
	if s.identity != nil {
		return domain.SessionActive
	}
	return domain.SessionAbsent
}
func (s *routerSession) CurrentIdentity() *domain.Identity { return s.identity }
func (s *routerSession) Can(c domain.Capability) bool {
	return s.identity != nil && s.identity.Role.Allows(c)
}
func (s *routerSession) Register(context.Context, ports.RegisterInput) (*domain.Identity, error) {
	return nil, domain.ErrIdentityExists
}
func (s *routerSession) ProvisionProfile(context.Context, string, ports.RegisterInput) error {
	return nil
}
func (s *routerSession) Login(context.Context, string, string) (*domain.Identity, error) {
	return nil, domain.ErrInvalidCredentials
}
func (s *routerSession) Logout(context.Context) error {
	s.identity = nil
	return nil
}
func (s *routerSession) Refresh(context.Context) (*domain.Identity, error) { return s.identity, nil }

type routerEditor struct{}

func (routerEditor) State() domain.GateState                      { return domain.GateIdle }
func (routerEditor) BeginSensitiveEdit() error                    { return nil }
func (routerEditor) Verify(context.Context, string) (bool, error) { return false, nil }
func (routerEditor) Cancel()                                      {}
func (routerEditor) CredentialDisplay() string                    { return "********" }
func (routerEditor) Submit(context.Context, domain.ProfileUpdateRequest) (*domain.Identity, error) {
	return nil, domain.ErrVerificationRequired
}

type routerCatalog struct{}

func (routerCatalog) Products(context.Context) ([]domain.Product, error) {
	return []domain.Product{}, nil
}
func (routerCatalog) Product(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

type routerCart struct{}

func (routerCart) Items() []domain.CartItem { return nil }
func (routerCart) Add(context.Context, domain.ProductSnapshot, ports.AddToCartInput) (domain.CartItem, error) {
	return domain.CartItem{}, nil
}
func (routerCart) Remove(context.Context, string) error              { return nil }
func (routerCart) UpdateQuantity(context.Context, string, int) error { return nil }
func (routerCart) Clear(context.Context) error                       { return nil }
func (routerCart) TotalPrice() domain.Money                          { return 0 }
func (routerCart) TotalItemCount() int                               { return 0 }
func (routerCart) CheckoutLines() []domain.CheckoutLine              { return nil }

type routerHistory struct{}

func (routerHistory) History(context.Context) (*ports.OrderHistory, error) {
	return &ports.OrderHistory{}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(session *routerSession) http.Handler {
	return NewRouter(Dependencies{
		Session: session,
		Profile: routerEditor{},
		Catalog: routerCatalog{},
		Cart:    routerCart{},
		Orders:  routerHistory{},
		Health:  map[string]handler.Pinger{"mongo": okPinger{}},
		Log:     zerolog.Nop(),
	})
}

func TestRouter_Routes(t *testing.T) {
	guest := newTestRouter(&routerSession{})
	customer := newTestRouter(&routerSession{identity: &domain.Identity{ID: "u1", Role: domain.RoleCustomer}})

	cases := []struct {
		name   string
		router http.Handler
		method string
		path   string
		want   int
	}{
		{"liveness", guest, http.MethodGet, "/health", http.StatusOK},
		{"readiness", guest, http.MethodGet, "/health/ready", http.StatusOK},
		{"metrics", guest, http.MethodGet, "/metrics", http.StatusOK},
		{"session", guest, http.MethodGet, "/v1/session", http.StatusOK},
		{"guest cart", guest, http.MethodGet, "/v1/cart", http.StatusOK},
		{"guest products", guest, http.MethodGet, "/v1/products", http.StatusOK},
		{"guest orders", guest, http.MethodGet, "/v1/orders", http.StatusUnauthorized},
		{"guest profile", guest, http.MethodGet, "/v1/profile", http.StatusUnauthorized},
		{"customer orders", customer, http.MethodGet, "/v1/orders", http.StatusOK},
		{"customer profile", customer, http.MethodGet, "/v1/profile", http.StatusOK},
		{"unknown route", guest, http.MethodGet, "/v1/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
			}
		})
	}
}
