package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

const (
	cartKeyPrefix = "cart:"
	guestCartKey  = cartKeyPrefix + "guest"
)

// CartKey returns the storage key of the cart owned by identity, or the guest
// key when nobody is logged in.
func CartKey(identity *domain.Identity) string {
	if identity == nil || identity.ID == "" {
		return guestCartKey
	}
	return cartKeyPrefix + identity.ID
}

// CartStore is the durable line-item cart of the current identity. Each
// identity has its own key; switching identity swaps the whole collection.
// Mutations are written to the store before they become visible.
type CartStore struct {
	store ports.KVStore
	log   zerolog.Logger
	newID func() string

	mu    sync.Mutex
	key   string
	items []domain.CartItem
}

func NewCartStore(store ports.KVStore, log zerolog.Logger) *CartStore {
	return &CartStore{
		store: store,
		log:   log,
		newID: uuid.NewString,
		key:   guestCartKey,
	}
}

// SwitchIdentity reloads the cart from the key of identity. If the persisted
// cart cannot be read the cart starts empty; it never keeps the previous
// identity's lines. The lock is held across the read so overlapping switches
// apply in the order they acquire it.
func (c *CartStore) SwitchIdentity(ctx context.Context, identity *domain.Identity) error {
	key := CartKey(identity)

	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load(ctx, key)
	c.key = key
	c.items = items
	if err != nil {
		return fmt.Errorf("switch cart to %s: %w", key, err)
	}
	return nil
}

// IdentityChanged implements ports.IdentityObserver.
func (c *CartStore) IdentityChanged(ctx context.Context, identity *domain.Identity) {
	if err := c.SwitchIdentity(ctx, identity); err != nil {
		c.log.Warn().Err(err).Msg("cart reload failed, starting empty")
	}
}

func (c *CartStore) load(ctx context.Context, key string) ([]domain.CartItem, error) {
	raw, ok, err := c.store.Read(ctx, key)
	if err != nil {
		return nil, remoteErr("read cart", err)
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

// Add appends a new line for product. Identical lines are never merged.
func (c *CartStore) Add(ctx context.Context, product domain.ProductSnapshot, in ports.AddToCartInput) (domain.CartItem, error) {
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item := domain.CartItem{
		ID:        c.uniqueIDLocked(),
		ProductID: product.ID,
		Product:   product,
		Quantity:  qty,
		Customizations: domain.Customizations{
			Flavors:  append([]string{}, in.Flavors...),
			Toppings: copyToppings(in.Toppings),
		},
		LineTotal: product.Price.Times(qty),
	}

	next := make([]domain.CartItem, 0, len(c.items)+1)
	next = append(next, c.items...)
	next = append(next, item)
	if err := c.commitLocked(ctx, next); err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

// Remove drops the line with itemID. Unknown ids are a no-op.
func (c *CartStore) Remove(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(ctx, itemID)
}

func (c *CartStore) removeLocked(ctx context.Context, itemID string) error {
	idx := c.indexLocked(itemID)
	if idx < 0 {
		return nil
	}
	next := make([]domain.CartItem, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	return c.commitLocked(ctx, next)
}

// UpdateQuantity sets the quantity of a line and recomputes its total from
// the stored unit price. A quantity of zero or less removes the line.
func (c *CartStore) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.removeLocked(ctx, itemID)
	}
	idx := c.indexLocked(itemID)
	if idx < 0 {
		return nil
	}
	next := append([]domain.CartItem(nil), c.items...)
	next[idx].Quantity = quantity
	next[idx].LineTotal = next[idx].Product.Price.Times(quantity)
	return c.commitLocked(ctx, next)
}

// Clear empties the cart and erases its persisted copy.
func (c *CartStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, c.key); err != nil {
		return remoteErr("clear cart", err)
	}
	c.items = nil
	return nil
}

// Items returns a deep copy of the current lines in insertion order.
func (c *CartStore) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartItem, len(c.items))
	for i, it := range c.items {
		out[i] = cloneCartItem(it)
	}
	return out
}

func cloneCartItem(it domain.CartItem) domain.CartItem {
	it.Customizations = cloneCustomizations(it.Customizations)
	return it
}

func cloneCustomizations(in domain.Customizations) domain.Customizations {
	out := domain.Customizations{Toppings: copyToppings(in.Toppings)}
	if in.Flavors != nil {
		out.Flavors = append([]string{}, in.Flavors...)
	}
	return out
}

// TotalPrice sums the line totals.
func (c *CartStore) TotalPrice() domain.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total domain.Money
	for _, it := range c.items {
		total += it.LineTotal
	}
	return total
}

// TotalItemCount sums quantities, not lines.
func (c *CartStore) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// CheckoutLines maps the cart to the rows inserted with an order.
func (c *CartStore) CheckoutLines() []domain.CheckoutLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]domain.CheckoutLine, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, domain.CheckoutLine{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			TotalPrice:     it.LineTotal,
			Customizations: cloneCustomizations(it.Customizations),
		})
	}
	return lines
}

// Key returns the storage key currently in use.
func (c *CartStore) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// commitLocked persists next under the current key, then makes it visible.
func (c *CartStore) commitLocked(ctx context.Context, next []domain.CartItem) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Write(ctx, c.key, raw); err != nil {
		return remoteErr("write cart", err)
	}
	c.items = next
	return nil
}

func (c *CartStore) indexLocked(itemID string) int {
	for i, it := range c.items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *CartStore) uniqueIDLocked() string {
	for {
		id := c.newID()
		if c.indexLocked(id) < 0 {
			return id
		}
	}
}

var _ ports.CartService = (*CartStore)(nil)
