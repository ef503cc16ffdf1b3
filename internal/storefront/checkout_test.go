package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"storefront-core/internal/model"
)

var testLines = []model.CheckoutLine{
	{VariantID: "gid://shopify/ProductVariant/11", Quantity: 2},
	{VariantID: "gid://shopify/ProductVariant/12", Quantity: 1},
}

func TestCreateCheckout_Success(t *testing.T) {
	var gotBody graphQLRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, `{"data": {"cartCreate": {
			"cart": {
				"id": "gid://shopify/Cart/abc",
				"checkoutUrl": "https://shop.example.com/checkouts/abc",
				"totalQuantity": 3,
				"cost": {"totalAmount": {"amount": "65.97", "currencyCode": "GBP"}}
			},
			"userErrors": []
		}}}`)
	}))

	session, err := client.CreateCheckout(context.Background(), testLines)
	if err != nil {
		t.Fatalf("CreateCheckout() error: %v", err)
	}

	if session.ID != "gid://shopify/Cart/abc" {
		t.Errorf("ID = %q, want the created cart id", session.ID)
	}
	if session.TotalQuantity != 3 || session.TotalAmount.Amount != "65.97" {
		t.Errorf("totals = (%d, %s), want (3, 65.97)", session.TotalQuantity, session.TotalAmount.Amount)
	}

	u, err := url.Parse(session.CheckoutURL)
	if err != nil {
		t.Fatalf("parsing checkout URL: %v", err)
	}
	if got := u.Query().Get("channel"); got != "online_store" {
		t.Errorf("channel param = %q, want %q", got, "online_store")
	}

	// The mutation input must carry the lines in order.
	input, ok := gotBody.Variables["input"].(map[string]any)
	if !ok {
		t.Fatalf("request variables = %+v, want an input object", gotBody.Variables)
	}
	lines, ok := input["lines"].([]any)
	if !ok || len(lines) != 2 {
		t.Fatalf("input lines = %+v, want 2 entries", input["lines"])
	}
	first := lines[0].(map[string]any)
	if first["merchandiseId"] != "gid://shopify/ProductVariant/11" {
		t.Errorf("first line merchandiseId = %v, want the first variant", first["merchandiseId"])
	}
}

func TestCreateCheckout_PreservesExistingQueryParams(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{"data": {"cartCreate": {
		"cart": {"id": "gid://shopify/Cart/x", "checkoutUrl": "https://shop.example.com/checkouts/x?key=abc"},
		"userErrors": []
	}}}`))

	session, err := client.CreateCheckout(context.Background(), testLines)
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(session.CheckoutURL)
	if u.Query().Get("key") != "abc" || u.Query().Get("channel") != "online_store" {
		t.Errorf("query = %q, want both original and channel params", u.RawQuery)
	}
}

func TestCreateCheckout_UserErrorsJoined(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{"data": {"cartCreate": {
		"cart": null,
		"userErrors": [
			{"field": ["lines"], "message": "variant is sold out"},
			{"field": ["lines"], "message": "quantity exceeds stock"}
		]
	}}}`))

	_, err := client.CreateCheckout(context.Background(), testLines)
	var checkoutErr *model.CheckoutError
	if !errors.As(err, &checkoutErr) {
		t.Fatalf("error = %v, want *model.CheckoutError", err)
	}
	if checkoutErr.Code != "CHECKOUT_REJECTED" {
		t.Errorf("Code = %q, want CHECKOUT_REJECTED", checkoutErr.Code)
	}
	want := "variant is sold out, quantity exceeds stock"
	if checkoutErr.Message != want {
		t.Errorf("Message = %q, want %q", checkoutErr.Message, want)
	}
	if !errors.Is(err, model.ErrCheckoutFailed) {
		t.Error("error does not wrap ErrCheckoutFailed")
	}
}

func TestCreateCheckout_MissingURL(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null cart", `{"data": {"cartCreate": {"cart": null, "userErrors": []}}}`},
		{"empty url", `{"data": {"cartCreate": {"cart": {"id": "gid://shopify/Cart/x", "checkoutUrl": ""}, "userErrors": []}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, jsonHandler(http.StatusOK, tt.body))
			_, err := client.CreateCheckout(context.Background(), testLines)
			var checkoutErr *model.CheckoutError
			if !errors.As(err, &checkoutErr) {
				t.Fatalf("error = %v, want *model.CheckoutError", err)
			}
			if checkoutErr.Code != "CHECKOUT_INCOMPLETE" {
				t.Errorf("Code = %q, want CHECKOUT_INCOMPLETE", checkoutErr.Code)
			}
		})
	}
}

func TestCreateCheckout_UpstreamFailurePropagates(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusBadGateway, `{}`))

	_, err := client.CreateCheckout(context.Background(), testLines)
	var checkoutErr *model.CheckoutError
	if !errors.As(err, &checkoutErr) {
		t.Fatalf("error = %v, want *model.CheckoutError", err)
	}
	if checkoutErr.Code != "CHECKOUT_UPSTREAM" {
		t.Errorf("Code = %q, want CHECKOUT_UPSTREAM", checkoutErr.Code)
	}
	if !errors.Is(err, model.ErrUpstream) {
		t.Error("error does not wrap ErrUpstream")
	}
	if !errors.Is(err, model.ErrCheckoutFailed) {
		t.Error("error does not wrap ErrCheckoutFailed")
	}
}

func TestCreateCheckout_EmptyLines(t *testing.T) {
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	if _, err := client.CreateCheckout(context.Background(), nil); !errors.Is(err, model.ErrEmptyCart) {
		t.Errorf("CreateCheckout(nil) error = %v, want ErrEmptyCart", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}
