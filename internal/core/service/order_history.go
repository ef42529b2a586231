package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

const (
	displayOffset = 8 * time.Hour
	shortRefLen   = 8
)

// DisplayZone is the fixed store offset used for every displayed timestamp.
var DisplayZone = time.FixedZone("UTC+8", int(displayOffset/time.Second))

// ProjectOrders maps the remote order graph to the history view. Input order
// is kept when it is already newest-first; otherwise orders are stably
// re-sorted by creation time, newest first.
func ProjectOrders(orders []domain.Order) []ports.DisplayOrder {
	sorted := orders
	if !sort.SliceIsSorted(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) }) {
		sorted = append([]domain.Order(nil), orders...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	}

	out := make([]ports.DisplayOrder, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, projectOrder(o))
	}
	return out
}

func projectOrder(o domain.Order) ports.DisplayOrder {
	items := make([]ports.DisplayLineItem, 0, len(o.Items))
	for _, it := range o.Items {
		line := ports.DisplayLineItem{
			ID:        it.ID,
			Quantity:  it.Quantity,
			LineTotal: it.UnitPrice.Times(it.Quantity),
			Flavors:   append([]string{}, it.Flavors...),
			Toppings:  copyToppings(it.Toppings),
		}
		if it.Product != nil {
			line.Product = &ports.DisplayProduct{Name: it.Product.Name, Image: it.Product.ImageURL}
		}
		items = append(items, line)
	}

	return ports.DisplayOrder{
		ID:             o.ID,
		ShortRef:       shortRef(o.ID),
		PlacedAt:       ToDisplayTime(o.CreatedAt),
		Status:         o.Status,
		StatusLabel:    strings.ToUpper(string(o.Status)),
		Total:          o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		Items:          items,
	}
}

// ToDisplayTime shifts a stored UTC instant into the fixed display offset.
func ToDisplayTime(t time.Time) time.Time {
	return t.UTC().In(DisplayZone)
}

// SegmentOrders returns the index of the first terminal order, scanning from
// the top. ok is false when no order is terminal.
func SegmentOrders(orders []ports.DisplayOrder) (index int, ok bool) {
	for i, o := range orders {
		if o.Status.IsTerminal() {
			return i, true
		}
	}
	return -1, false
}

func shortRef(id string) string {
	if len(id) <= shortRefLen {
		return id
	}
	return id[len(id)-shortRefLen:]
}

func copyToppings(in map[domain.ToppingTier]string) map[domain.ToppingTier]string {
	out := make(map[domain.ToppingTier]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// OrderHistoryService loads and projects the current identity's orders.
type OrderHistoryService struct {
	session   *SessionManager
	customers ports.CustomerRepository
	orders    ports.OrderRepository
	log       zerolog.Logger
}

func NewOrderHistoryService(session *SessionManager, customers ports.CustomerRepository, orders ports.OrderRepository, log zerolog.Logger) *OrderHistoryService {
	return &OrderHistoryService{session: session, customers: customers, orders: orders, log: log}
}

// History returns the projected order list with its active/terminal boundary.
// An identity without a customer record simply has no orders.
func (s *OrderHistoryService) History(ctx context.Context) (*ports.OrderHistory, error) {
	current := s.session.CurrentIdentity()
	if current == nil {
		return nil, domain.ErrNoActiveSession
	}
	if !current.Role.Allows(domain.CapViewOwnOrders) {
		return nil, domain.ErrForbidden
	}

	rec, err := s.customers.FindByUserID(ctx, current.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("identity_id", current.ID).Msg("no customer record for identity")
			return &ports.OrderHistory{Orders: []ports.DisplayOrder{}, FirstTerminal: -1}, nil
		}
		return nil, remoteErr("order history: find customer", err)
	}

	orders, err := s.orders.ListByCustomer(ctx, rec.CustomerID)
	if err != nil {
		return nil, remoteErr("order history: list orders", err)
	}

	projected := ProjectOrders(orders)
	idx, ok := SegmentOrders(projected)
	s.log.Debug().Str("customer_id", rec.CustomerID).Int("orders", len(projected)).Msg("order history loaded")
	return &ports.OrderHistory{Orders: projected, FirstTerminal: idx, HasBoundary: ok}, nil
}

var _ ports.OrderHistoryReader = (*OrderHistoryService)(nil)
