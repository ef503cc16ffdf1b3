// storefront is a CLI for exercising the commerce core against a live shop.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	storefront products [-status available|sold-out|coming-soon]
//	storefront product -handle <handle>
//	storefront add -handle <handle> [-qty N]
//	storefront qty -variant <id> -n N
//	storefront rm -variant <id>
//	storefront cart
//	storefront clear
//	storefront checkout
//
// The shop is selected with -domain/-token flags or the SHOP_STORE_DOMAIN and
// SHOP_STOREFRONT_TOKEN environment variables. Cart state persists in a JSON
// file under the user config directory, so commands compose across runs:
//
//	storefront add -handle sparkling-blend -qty 2
//	storefront add -handle still-blend
//	storefront checkout
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"storefront-core/internal/cart"
	"storefront-core/internal/model"
	"storefront-core/internal/storage"
	"storefront-core/internal/storefront"
)

// Global flags (apply to all commands)
var (
	storeDomain string
	accessToken string
	quiet       bool
	verbose     bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen = "", "", ""
	colorYellow, colorCyan, colorGray, colorBold = "", "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "products":
		runProducts(args)
	case "product":
		runProduct(args)
	case "add":
		runAdd(args)
	case "qty":
		runQty(args)
	case "rm":
		runRemove(args)
	case "cart":
		runCart(args)
	case "clear":
		runClear(args)
	case "checkout":
		runCheckout(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `storefront - shop catalog and cart test tool

Usage:
  storefront <command> [options]

Commands:
  products  List catalog products with availability and price
  product   Show one product by handle
  add       Add a product's primary variant to the cart
  qty       Set a cart line's quantity
  rm        Remove a cart line
  cart      Show the cart
  clear     Empty the cart
  checkout  Create a checkout session and print the payment URL

Examples:
  storefront products -status available
  storefront add -handle sparkling-blend -qty 2
  storefront checkout

Run 'storefront <command> -h' for command-specific options.
`)
}

// newFlagSet creates a flag set carrying the global flags.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&storeDomain, "domain", os.Getenv("SHOP_STORE_DOMAIN"), "shop domain, e.g. shop.example.com")
	fs.StringVar(&accessToken, "token", os.Getenv("SHOP_STOREFRONT_TOKEN"), "storefront access token")
	fs.BoolVar(&quiet, "q", false, "machine-readable output only")
	fs.BoolVar(&verbose, "v", false, "verbose logging")
	return fs
}

func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient() *storefront.Client {
	if storeDomain == "" || accessToken == "" {
		fatal("shop not configured: set -domain/-token or SHOP_STORE_DOMAIN/SHOP_STOREFRONT_TOKEN")
	}
	client, err := storefront.New(storefront.Config{
		StoreDomain: storeDomain,
		AccessToken: accessToken,
		Logger:      newLogger(),
	})
	if err != nil {
		fatal("creating client: %v", err)
	}
	return client
}

// newCart opens the persisted cart. Cart state lives in a JSON file under
// the user config directory, keyed by shop domain.
func newCart(ctx context.Context, checkout cart.CheckoutCreator) *cart.Store {
	logger := newLogger()

	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "storefront", storeDomain+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fatal("creating config dir: %v", err)
	}

	file, err := storage.NewFile(path)
	if err != nil {
		fatal("opening cart file: %v", err)
	}

	return cart.New(cart.Options{
		Storage:  storage.Open(ctx, file, logger),
		Checkout: checkout,
		Logger:   logger,
	})
}

func timeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// =============================================================================
// COMMANDS
// =============================================================================

func runProducts(args []string) {
	fs := newFlagSet("products")
	status := fs.String("status", "", "filter by status: available, sold-out, coming-soon")
	fs.Parse(args)

	ctx, cancel := timeoutContext()
	defer cancel()

	products := newClient().FetchProducts(ctx)
	if len(products) == 0 {
		info("no products (catalog empty or backend unavailable)")
		return
	}

	for i := range products {
		p := &products[i]
		s := model.Status(p)
		if *status != "" && string(s) != *status {
			continue
		}
		if quiet {
			fmt.Println(p.Handle)
			continue
		}
		fmt.Printf("%s%-30s%s %s %s\n", colorBold, p.Handle, colorReset, statusBadge(s), displayPrice(p))
	}
}

func runProduct(args []string) {
	fs := newFlagSet("product")
	handle := fs.String("handle", "", "product handle (required)")
	fs.Parse(args)
	if *handle == "" {
		fatal("-handle is required")
	}

	ctx, cancel := timeoutContext()
	defer cancel()

	p := newClient().FetchProductByHandle(ctx, *handle)
	if p == nil {
		fatal("product %q not found", *handle)
	}

	if quiet {
		if id, ok := model.VariantID(p); ok {
			fmt.Println(id)
		}
		return
	}

	fmt.Printf("%s%s%s\n", colorBold, p.Title, colorReset)
	fmt.Printf("  handle:  %s\n", p.Handle)
	fmt.Printf("  status:  %s\n", statusBadge(model.Status(p)))
	fmt.Printf("  price:   %s\n", displayPrice(p))
	if id, ok := model.VariantID(p); ok {
		fmt.Printf("  variant: %s%s%s\n", colorGray, id, colorReset)
	}
	if p.Description != "" {
		fmt.Printf("  %s%s%s\n", colorGray, p.Description, colorReset)
	}
}

func runAdd(args []string) {
	fs := newFlagSet("add")
	handle := fs.String("handle", "", "product handle (required)")
	qty := fs.Int("qty", 1, "quantity to add")
	fs.Parse(args)
	if *handle == "" {
		fatal("-handle is required")
	}

	ctx, cancel := timeoutContext()
	defer cancel()

	client := newClient()
	p := client.FetchProductByHandle(ctx, *handle)
	if p == nil {
		fatal("product %q not found", *handle)
	}
	if model.Status(p) != model.StatusAvailable {
		fatal("product %q is %s", *handle, model.Status(p))
	}

	variant, ok := model.PrimaryVariant(p)
	if !ok {
		fatal("product %q has no purchasable variant", *handle)
	}
	amount, _ := model.ParseAmount(variant.Price.Amount)

	item := model.CartItem{
		VariantID: variant.ID,
		Title:     p.Title,
		Price:     amount,
		Quantity:  *qty,
		Handle:    p.Handle,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0].URL
	}

	store := newCart(ctx, client)
	if err := store.AddItem(item); err != nil {
		fatal("adding to cart: %v", err)
	}
	success("added %dx %s", *qty, p.Title)
	printCart(store)
}

func runQty(args []string) {
	fs := newFlagSet("qty")
	variant := fs.String("variant", "", "cart line variant id (required)")
	n := fs.Int("n", -1, "new quantity; 0 removes the line (required)")
	fs.Parse(args)
	if *variant == "" || *n < 0 {
		fatal("-variant and -n are required")
	}

	ctx, cancel := timeoutContext()
	defer cancel()

	store := newCart(ctx, nil)
	store.UpdateQuantity(*variant, *n)
	printCart(store)
}

func runRemove(args []string) {
	fs := newFlagSet("rm")
	variant := fs.String("variant", "", "cart line variant id (required)")
	fs.Parse(args)
	if *variant == "" {
		fatal("-variant is required")
	}

	ctx, cancel := timeoutContext()
	defer cancel()

	store := newCart(ctx, nil)
	store.RemoveItem(*variant)
	printCart(store)
}

func runCart(args []string) {
	fs := newFlagSet("cart")
	fs.Parse(args)

	ctx, cancel := timeoutContext()
	defer cancel()

	printCart(newCart(ctx, nil))
}

func runClear(args []string) {
	fs := newFlagSet("clear")
	fs.Parse(args)

	ctx, cancel := timeoutContext()
	defer cancel()

	store := newCart(ctx, nil)
	store.Clear()
	success("cart cleared")
}

func runCheckout(args []string) {
	fs := newFlagSet("checkout")
	fs.Parse(args)

	ctx, cancel := timeoutContext()
	defer cancel()

	client := newClient()
	store := newCart(ctx, client)

	if err := store.CreateCheckout(ctx); err != nil {
		fatal("checkout: %v", err)
	}

	snap := store.Snapshot()
	if snap.CheckoutURL == "" {
		info("nothing to check out")
		return
	}
	if quiet {
		fmt.Println(snap.CheckoutURL)
		return
	}
	success("checkout session created")
	fmt.Printf("  %s%s%s\n", colorCyan, snap.CheckoutURL, colorReset)
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printCart(store *cart.Store) {
	snap := store.Snapshot()
	if len(snap.Items) == 0 {
		info("cart is empty")
		return
	}
	if quiet {
		for _, item := range snap.Items {
			fmt.Printf("%s\t%d\n", item.VariantID, item.Quantity)
		}
		return
	}
	total := 0.0
	for _, item := range snap.Items {
		fmt.Printf("  %dx %-30s %s  %s%s%s\n",
			item.Quantity, item.Title,
			model.FormatPrice(item.Price, "GBP"),
			colorGray, item.VariantID, colorReset)
		total += item.Price * float64(item.Quantity)
	}
	fmt.Printf("  %stotal: %s%s\n", colorBold, model.FormatPrice(total, "GBP"), colorReset)
}

func statusBadge(s model.ProductStatus) string {
	switch s {
	case model.StatusAvailable:
		return colorGreen + string(s) + colorReset
	case model.StatusSoldOut:
		return colorRed + string(s) + colorReset
	default:
		return colorYellow + string(s) + colorReset
	}
}

func displayPrice(p *model.Product) string {
	amount, ok := model.Price(p)
	if !ok {
		return model.PriceUnavailable
	}
	currency := ""
	if v, vok := model.PrimaryVariant(p); vok {
		currency = v.Price.CurrencyCode
	}
	return model.FormatPrice(amount, currency)
}

func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(colorGray+format+colorReset+"\n", args...)
	}
}

func success(format string, args ...any) {
	if !quiet {
		fmt.Printf(colorGreen+"✓ "+colorReset+format+"\n", args...)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"error:"+colorReset+" "+format+"\n", args...)
	os.Exit(1)
}
