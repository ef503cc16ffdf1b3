// MCP transport for the storefront core using the official MCP Go SDK.
// Exposes catalog reads and cart mutations as MCP tools.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"storefront-core/internal/model"
)

// === Tool Input/Output Types ===

// ProductView is the tool-facing product record: the raw catalog record
// plus the derived status, primary variant, and display price.
type ProductView struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Handle       string   `json:"handle"`
	Description  string   `json:"description,omitempty"`
	Status       string   `json:"status"`
	Price        string   `json:"price"`
	VariantID    string   `json:"variant_id,omitempty"`
	VariantTitle string   `json:"variant_title,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// CartItemView is one cart line as shown to the agent.
type CartItemView struct {
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartView is the cart state returned by every cart mutation, so the agent
// always sees the post-mutation truth.
type CartView struct {
	Items       []CartItemView `json:"items"`
	TotalItems  int            `json:"total_items"`
	CartID      string         `json:"cart_id,omitempty"`
	CheckoutURL string         `json:"checkout_url,omitempty"`
}

// ListProductsInput is the input schema for the list_products tool.
type ListProductsInput struct {
	// Status filters the listing; empty means all.
	Status string `json:"status,omitempty" jsonschema:"filter by availability: available, sold-out, or coming-soon"`
}

// ListProductsOutput is the output schema for the list_products tool.
type ListProductsOutput struct {
	Products []ProductView `json:"products"`
}

// GetProductInput is the input schema for the get_product tool.
type GetProductInput struct {
	Handle string `json:"handle" jsonschema:"product handle,required"`
}

// GetProductOutput is the output schema for the get_product tool.
type GetProductOutput struct {
	Found   bool         `json:"found"`
	Product *ProductView `json:"product,omitempty"`
}

// AddToCartInput is the input schema for the add_to_cart tool.
type AddToCartInput struct {
	Handle   string `json:"handle" jsonschema:"product handle,required"`
	Quantity int    `json:"quantity,omitempty" jsonschema:"quantity to add, defaults to 1"`
}

// UpdateQuantityInput is the input schema for the update_quantity tool.
type UpdateQuantityInput struct {
	VariantID string `json:"variant_id" jsonschema:"cart line variant identifier,required"`
	Quantity  int    `json:"quantity" jsonschema:"new quantity; zero removes the line,required"`
}

// RemoveFromCartInput is the input schema for the remove_from_cart tool.
type RemoveFromCartInput struct {
	VariantID string `json:"variant_id" jsonschema:"cart line variant identifier,required"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// CreateCheckoutOutput is the output schema for the create_checkout tool.
type CreateCheckoutOutput struct {
	CheckoutURL string   `json:"checkout_url,omitempty"`
	Cart        CartView `json:"cart"`
}

// NewMCPServer creates an MCP server with catalog and cart tools registered.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "storefront-core",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront commerce tools. Browse the product catalog, " +
				"manage a cart, and create a checkout session to hand the buyer " +
				"a payment URL.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List catalog products with availability status and display price. Optionally filter by status.",
	}, h.mcpListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get one product by its handle.",
	}, h.mcpGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product's primary variant to the cart by product handle.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_quantity",
		Description: "Set a cart line's quantity. Zero removes the line.",
	}, h.mcpUpdateQuantity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_from_cart",
		Description: "Remove a cart line.",
	}, h.mcpRemoveFromCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_cart",
		Description: "Show the current cart contents.",
	}, h.mcpViewCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_cart",
		Description: "Empty the cart and discard any checkout session.",
	}, h.mcpClearCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_checkout",
		Description: "Create a checkout session from the cart and return the payment URL.",
	}, h.mcpCreateCheckout)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpListProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListProductsInput,
) (*mcp.CallToolResult, ListProductsOutput, error) {
	products := h.catalog.FetchProducts(ctx)

	views := make([]ProductView, 0, len(products))
	for i := range products {
		view := productView(&products[i])
		if input.Status != "" && view.Status != input.Status {
			continue
		}
		views = append(views, view)
	}
	return nil, ListProductsOutput{Products: views}, nil
}

func (h *Handler) mcpGetProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, GetProductOutput, error) {
	if input.Handle == "" {
		return nil, GetProductOutput{}, fmt.Errorf("handle is required")
	}

	p := h.catalog.FetchProductByHandle(ctx, input.Handle)
	if p == nil {
		return nil, GetProductOutput{Found: false}, nil
	}
	view := productView(p)
	return nil, GetProductOutput{Found: true, Product: &view}, nil
}

func (h *Handler) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddToCartInput,
) (*mcp.CallToolResult, CartView, error) {
	if input.Handle == "" {
		return nil, CartView{}, fmt.Errorf("handle is required")
	}
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}

	p := h.catalog.FetchProductByHandle(ctx, input.Handle)
	if p == nil {
		return nil, CartView{}, fmt.Errorf("product %q not found", input.Handle)
	}
	if model.Status(p) != model.StatusAvailable {
		return nil, CartView{}, fmt.Errorf("product %q is not available for sale", input.Handle)
	}

	variant, ok := model.PrimaryVariant(p)
	if !ok {
		return nil, CartView{}, fmt.Errorf("product %q has no purchasable variant", input.Handle)
	}
	price, _ := model.ParseAmount(variant.Price.Amount)

	item := model.CartItem{
		VariantID: variant.ID,
		Title:     p.Title,
		Price:     price,
		Quantity:  qty,
		Handle:    p.Handle,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0].URL
	}

	if err := h.cart.AddItem(item); err != nil {
		return nil, CartView{}, h.mcpError(err)
	}
	return nil, h.cartView(), nil
}

func (h *Handler) mcpUpdateQuantity(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateQuantityInput,
) (*mcp.CallToolResult, CartView, error) {
	if input.VariantID == "" {
		return nil, CartView{}, fmt.Errorf("variant_id is required")
	}
	h.cart.UpdateQuantity(input.VariantID, input.Quantity)
	return nil, h.cartView(), nil
}

func (h *Handler) mcpRemoveFromCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveFromCartInput,
) (*mcp.CallToolResult, CartView, error) {
	if input.VariantID == "" {
		return nil, CartView{}, fmt.Errorf("variant_id is required")
	}
	h.cart.RemoveItem(input.VariantID)
	return nil, h.cartView(), nil
}

func (h *Handler) mcpViewCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, CartView, error) {
	return nil, h.cartView(), nil
}

func (h *Handler) mcpClearCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, CartView, error) {
	h.cart.Clear()
	return nil, h.cartView(), nil
}

func (h *Handler) mcpCreateCheckout(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, CreateCheckoutOutput, error) {
	if err := h.cart.CreateCheckout(ctx); err != nil {
		return nil, CreateCheckoutOutput{}, h.mcpError(err)
	}

	snap := h.cart.Snapshot()
	return nil, CreateCheckoutOutput{
		CheckoutURL: snap.CheckoutURL,
		Cart:        cartViewFrom(snap.Items, snap.CartID, snap.CheckoutURL),
	}, nil
}

// mcpError keeps user-presentable failures intact and hides the rest.
func (h *Handler) mcpError(err error) error {
	var checkoutErr *model.CheckoutError
	if errors.As(err, &checkoutErr) {
		return fmt.Errorf("%s: %s", checkoutErr.Code, checkoutErr.Message)
	}
	if errors.Is(err, model.ErrInvalidVariantID) || errors.Is(err, model.ErrCheckoutInProgress) {
		return err
	}
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}

// === View Builders ===

func productView(p *model.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		Description: p.Description,
		Status:      string(model.Status(p)),
	}

	if variant, ok := model.PrimaryVariant(p); ok {
		view.VariantID = variant.ID
		view.VariantTitle = variant.Title
	}

	if amount, ok := model.Price(p); ok {
		currency := ""
		if variant, varOK := model.PrimaryVariant(p); varOK {
			currency = variant.Price.CurrencyCode
		}
		view.Price = model.FormatPrice(amount, currency)
	} else {
		view.Price = model.PriceUnavailable
	}

	for _, img := range p.Images {
		view.Images = append(view.Images, img.URL)
	}
	return view
}

func (h *Handler) cartView() CartView {
	snap := h.cart.Snapshot()
	return cartViewFrom(snap.Items, snap.CartID, snap.CheckoutURL)
}

// cartCurrency is the display currency for cart lines, which store bare
// amounts. Matches the shop's storefront currency.
const cartCurrency = "GBP"

func cartViewFrom(items []model.CartItem, cartID, checkoutURL string) CartView {
	view := CartView{
		Items:       make([]CartItemView, 0, len(items)),
		CartID:      cartID,
		CheckoutURL: checkoutURL,
	}
	for _, item := range items {
		view.Items = append(view.Items, CartItemView{
			VariantID: item.VariantID,
			Title:     item.Title,
			Price:     model.FormatPrice(item.Price, cartCurrency),
			Quantity:  item.Quantity,
		})
		view.TotalItems += item.Quantity
	}
	return view
}
