package agent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-core/internal/cart"
	"storefront-core/internal/catalog"
	"storefront-core/internal/model"
)

func testProduct(handle string, available bool) model.Product {
	return model.Product{
		ID:     "gid://shopify/Product/" + handle,
		Title:  handle,
		Handle: handle,
		Price:  model.Money{Amount: "21.99", CurrencyCode: "GBP"},
		Variants: []model.Variant{{
			ID:               "gid://shopify/ProductVariant/" + handle,
			Price:            model.Money{Amount: "21.99", CurrencyCode: "GBP"},
			AvailableForSale: available,
		}},
	}
}

func testAgent(products ...model.Product) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := catalog.NewFallback(products)
	store := cart.New(cart.Options{Logger: logger})
	return New(source, store, logger)
}

func TestMCPServerCreation(t *testing.T) {
	h := testAgent()
	if h.NewMCPServer() == nil {
		t.Fatal("NewMCPServer returned nil")
	}
	if h.NewMCPHandler() == nil {
		t.Fatal("NewMCPHandler returned nil")
	}
}

func TestHealthRoute(t *testing.T) {
	h := testAgent()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestListProducts(t *testing.T) {
	h := testAgent(testProduct("a", true), testProduct("b", false))

	_, out, err := h.mcpListProducts(context.Background(), nil, ListProductsInput{})
	if err != nil {
		t.Fatalf("list_products error: %v", err)
	}
	if len(out.Products) != 2 {
		t.Fatalf("len(products) = %d, want 2", len(out.Products))
	}
	if out.Products[0].Status != "available" || out.Products[1].Status != "sold-out" {
		t.Errorf("statuses = %s, %s; want available, sold-out",
			out.Products[0].Status, out.Products[1].Status)
	}
	if out.Products[0].Price != "£21.99" {
		t.Errorf("price = %q, want formatted £21.99", out.Products[0].Price)
	}
}

func TestListProducts_StatusFilter(t *testing.T) {
	h := testAgent(testProduct("a", true), testProduct("b", false))

	_, out, err := h.mcpListProducts(context.Background(), nil, ListProductsInput{Status: "available"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Products) != 1 || out.Products[0].Handle != "a" {
		t.Errorf("products = %+v, want only the available one", out.Products)
	}
}

func TestGetProduct(t *testing.T) {
	h := testAgent(testProduct("a", true))

	_, out, err := h.mcpGetProduct(context.Background(), nil, GetProductInput{Handle: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Found || out.Product == nil || out.Product.Handle != "a" {
		t.Errorf("output = %+v, want the product", out)
	}

	_, out, err = h.mcpGetProduct(context.Background(), nil, GetProductInput{Handle: "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Found || out.Product != nil {
		t.Errorf("output = %+v, want not found", out)
	}
}

func TestGetProduct_RequiresHandle(t *testing.T) {
	h := testAgent()
	if _, _, err := h.mcpGetProduct(context.Background(), nil, GetProductInput{}); err == nil {
		t.Error("get_product without handle succeeded, want error")
	}
}

func TestAddToCart(t *testing.T) {
	h := testAgent(testProduct("a", true))

	_, view, err := h.mcpAddToCart(context.Background(), nil, AddToCartInput{Handle: "a", Quantity: 2})
	if err != nil {
		t.Fatalf("add_to_cart error: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Errorf("cart = %+v, want one line with quantity 2", view)
	}
	if view.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", view.TotalItems)
	}
}

func TestAddToCart_RejectsUnavailable(t *testing.T) {
	h := testAgent(testProduct("b", false))

	if _, _, err := h.mcpAddToCart(context.Background(), nil, AddToCartInput{Handle: "b"}); err == nil {
		t.Error("add_to_cart for sold-out product succeeded, want error")
	}
	if _, _, err := h.mcpAddToCart(context.Background(), nil, AddToCartInput{Handle: "missing"}); err == nil {
		t.Error("add_to_cart for unknown product succeeded, want error")
	}
}

func TestUpdateAndRemove(t *testing.T) {
	h := testAgent(testProduct("a", true))
	if _, _, err := h.mcpAddToCart(context.Background(), nil, AddToCartInput{Handle: "a"}); err != nil {
		t.Fatal(err)
	}
	variantID := "gid://shopify/ProductVariant/a"

	_, view, err := h.mcpUpdateQuantity(context.Background(), nil, UpdateQuantityInput{VariantID: variantID, Quantity: 5})
	if err != nil {
		t.Fatal(err)
	}
	if view.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", view.Items[0].Quantity)
	}

	_, view, err = h.mcpRemoveFromCart(context.Background(), nil, RemoveFromCartInput{VariantID: variantID})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 0 {
		t.Errorf("cart = %+v, want empty after removal", view)
	}
}

func TestClearCart(t *testing.T) {
	h := testAgent(testProduct("a", true))
	if _, _, err := h.mcpAddToCart(context.Background(), nil, AddToCartInput{Handle: "a"}); err != nil {
		t.Fatal(err)
	}

	_, view, err := h.mcpClearCart(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 0 || view.CartID != "" || view.CheckoutURL != "" {
		t.Errorf("cart = %+v, want fully reset", view)
	}
}
