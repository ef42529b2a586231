package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/core/ports"
)

type OrderHandler struct {
	history ports.OrderHistoryReader
}

func NewOrderHandler(history ports.OrderHistoryReader) *OrderHandler {
	return &OrderHandler{history: history}
}

// List returns the current identity's orders, newest first, with display
// times in UTC+8.
//
// @Summary      Order history
// @Tags         orders
// @Produce      json
// @Success      200  {object}  orderHistoryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	hist, err := h.history.History(c.Request().Context())
	if err != nil {
		return err
	}

	resp := orderHistoryResponse{Orders: hist.Orders}
	if resp.Orders == nil {
		resp.Orders = []ports.DisplayOrder{}
	}
	if hist.HasBoundary {
		idx := hist.FirstTerminal
		resp.FirstTerminal = &idx
	}
	return c.JSON(http.StatusOK, resp)
}
