package domain

import "strings"

// Role is the server-assigned role of an identity. The client never elevates it.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps provider metadata to a Role. Anything absent or unknown is a customer.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// Capability names an action whose availability depends on the caller's role.
type Capability string

const (
	CapPlaceOrder     Capability = "place_order"
	CapViewOwnOrders  Capability = "view_own_orders"
	CapEditProfile    Capability = "edit_profile"
	CapManageCatalog  Capability = "manage_catalog"
	CapManageAllOrder Capability = "manage_all_orders"
)

var roleCapabilities = map[Role][]Capability{
	RoleCustomer: {CapPlaceOrder, CapViewOwnOrders, CapEditProfile},
	RoleAdmin:    {CapPlaceOrder, CapViewOwnOrders, CapEditProfile, CapManageCatalog, CapManageAllOrder},
}

// Allows reports whether the role grants the capability.
func (r Role) Allows(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Identity is the authenticated principal and its profile attributes.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Role        Role   `json:"role"`
}

// SessionState is the lifecycle state of the current session.
type SessionState string

const (
	SessionAbsent  SessionState = "absent"
	SessionLoading SessionState = "loading"
	SessionActive  SessionState = "active"
)

// CustomerRecord is the domain profile row created for every registered identity.
type CustomerRecord struct {
	CustomerID string `json:"customer_id"`
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// ProfileUpdateRequest carries the fields a user submits from the profile form.
// A nil field was not supplied.
type ProfileUpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	Email           *string `json:"email,omitempty"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
}
