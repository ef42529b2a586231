package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/api/metrics"
	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// CartHandler serves the cart of whoever is current, guest included.
type CartHandler struct {
	cart    ports.CartService
	catalog ports.Catalog
}

func NewCartHandler(cart ports.CartService, catalog ports.Catalog) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

func (h *CartHandler) view() cartResponse {
	return cartResponse{
		Items:      h.cart.Items(),
		TotalPrice: h.cart.TotalPrice(),
		TotalItems: h.cart.TotalItemCount(),
	}
}

func countMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CartMutationsTotal.WithLabelValues(op, result).Inc()
}

// Get returns the cart with its totals.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

// Add appends a line for a catalog product. Identical products are never
// merged.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addToCartRequest  true  "Product and choices"
// @Success      201   {object}  domain.CartItem
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		return err
	}

	toppings := make(map[domain.ToppingTier]string, len(req.Toppings))
	for tier, v := range req.Toppings {
		toppings[domain.ToppingTier(tier)] = v
	}

	item, err := h.cart.Add(ctx, product.Snapshot(), ports.AddToCartInput{
		Quantity: req.Quantity,
		Flavors:  req.Flavors,
		Toppings: toppings,
	})
	countMutation("add", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
//
// @Summary      Update line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Line id"
// @Param        body  body      updateQuantityRequest  true  "New quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	err := h.cart.UpdateQuantity(c.Request().Context(), c.Param("id"), req.Quantity)
	countMutation("update_quantity", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view())
}

// Remove drops a line. Unknown ids are ignored.
//
// @Summary      Remove line
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "Line id"
// @Success      200  {object}  cartResponse
// @Router       /v1/cart/items/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	err := h.cart.Remove(c.Request().Context(), c.Param("id"))
	countMutation("remove", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view())
}

// Clear empties the cart.
//
// @Summary      Clear cart
// @Tags         cart
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	err := h.cart.Clear(c.Request().Context())
	countMutation("clear", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout returns the lines as they are inserted with an order.
//
// @Summary      Checkout lines
// @Tags         cart
// @Produce      json
// @Success      200  {object}  checkoutResponse
// @Router       /v1/cart/checkout [get]
func (h *CartHandler) Checkout(c echo.Context) error {
	return c.JSON(http.StatusOK, checkoutResponse{
		Lines:      h.cart.CheckoutLines(),
		TotalPrice: h.cart.TotalPrice(),
	})
}
