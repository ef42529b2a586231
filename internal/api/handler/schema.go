package handler

import (
	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"max=32"`
	Address  string `json:"address"  validate:"max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type provisionRequest struct {
	IdentityID string `json:"identity_id" validate:"required"`
	Name       string `json:"name"        validate:"required,max=120"`
	Phone      string `json:"phone"       validate:"max=32"`
	Address    string `json:"address"     validate:"max=255"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	State        domain.SessionState `json:"state"`
	Identity     *domain.Identity    `json:"identity"`
	Capabilities []domain.Capability `json:"capabilities"`
	Warning      string              `json:"warning,omitempty"`
}

// provisioningFailedResponse names the identity whose customer record is
// missing so the client can call /v1/session/provision.
type provisioningFailedResponse struct {
	Error      string `json:"error"`
	IdentityID string `json:"identity_id"`
}

// --- Profile ---

type verifyRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
}

type updateProfileRequest struct {
	Name            *string `json:"name"             validate:"omitempty,max=120"`
	Phone           *string `json:"phone"            validate:"omitempty,max=32"`
	Address         *string `json:"address"          validate:"omitempty,max=255"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Password        *string `json:"password"         validate:"omitempty,min=6"`
	ConfirmPassword *string `json:"confirm_password"`
}

type gateResponse struct {
	GateState  domain.GateState `json:"gate_state"`
	Credential string           `json:"credential"`
}

type profileResponse struct {
	Identity *domain.Identity `json:"identity"`
	gateResponse
}

type verifyResponse struct {
	Verified bool `json:"verified"`
	gateResponse
}

// --- Cart ---

// addToCartRequest names the product only; name and price come from the catalog.
type addToCartRequest struct {
	ProductID string            `json:"product_id" validate:"required"`
	Quantity  int               `json:"quantity"   validate:"gte=0"`
	Flavors   []string          `json:"flavors"`
	Toppings  map[string]string `json:"toppings"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items      []domain.CartItem `json:"items"`
	TotalPrice domain.Money      `json:"total_price"`
	TotalItems int               `json:"total_items"`
}

type checkoutResponse struct {
	Lines      []domain.CheckoutLine `json:"lines"`
	TotalPrice domain.Money          `json:"total_price"`
}

// --- Catalog ---

type productListResponse struct {
	Products []domain.Product `json:"products"`
}

// --- Orders ---

type orderHistoryResponse struct {
	Orders []ports.DisplayOrder `json:"orders"`
	// FirstTerminal is the index of the first delivered or cancelled order;
	// null when every order is still active.
	FirstTerminal *int `json:"first_terminal"`
}
