package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/simpledough/storefront/internal/core/domain"
)

func TestProductHandler_List(t *testing.T) {
	h := NewProductHandler(catalogWithGlazed())
	c, rec := newContext(t, http.MethodGet, "/v1/products", nil)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp productListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p1" || resp.Products[0].Price != 2500 {
		t.Fatalf("unexpected products: %+v", resp)
	}
}

func TestProductHandler_List_Error(t *testing.T) {
	h := NewProductHandler(&stubCatalog{err: domain.ErrRemoteUnavailable})
	c, _ := newContext(t, http.MethodGet, "/v1/products", nil)

	if err := h.List(c); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}
