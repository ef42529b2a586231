package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simpledough/storefront/internal/core/ports"
)

type ProductHandler struct {
	catalog ports.Catalog
}

func NewProductHandler(catalog ports.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List returns the product catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productListResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.catalog.Products(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products})
}
