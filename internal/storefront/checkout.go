package storefront

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"storefront-core/internal/model"
)

// checkoutChannelParam is appended to every returned checkout URL so the
// remote attributes the redirect to the online store sales channel.
// Consumers rely on this exact transformation.
const (
	checkoutChannelParam = "channel"
	checkoutChannelValue = "online_store"
)

// CreateCheckout creates a remote checkout session from pre-validated lines
// and returns it with a redirect URL carrying the channel parameter.
//
// Unlike catalog reads this does not degrade: remote user errors, a missing
// checkout URL, and transport failures all return a *model.CheckoutError.
func (c *Client) CreateCheckout(ctx context.Context, lines []model.CheckoutLine) (*model.CheckoutSession, error) {
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	input := map[string]any{"lines": checkoutLinesInput(lines)}
	data, err := c.execute(ctx, cartCreateMutation, map[string]any{"input": input})
	if err != nil {
		c.logger.Error("checkout session request failed", slog.Any("error", err))
		return nil, model.NewCheckoutUpstream(err)
	}

	var envelope cartCreateEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Error("checkout session response malformed", slog.Any("error", err))
		return nil, model.NewCheckoutUpstream(err)
	}

	if len(envelope.CartCreate.UserErrors) > 0 {
		joined := joinUserErrors(envelope.CartCreate.UserErrors)
		c.logger.Error("checkout session rejected", slog.String("user_errors", joined))
		return nil, model.NewCheckoutRejected(joined)
	}

	cart := envelope.CartCreate.Cart
	if cart == nil || cart.CheckoutURL == "" {
		c.logger.Error("checkout session created without redirect URL")
		return nil, model.NewCheckoutIncomplete()
	}

	checkoutURL, err := withChannelParam(cart.CheckoutURL)
	if err != nil {
		c.logger.Error("checkout URL unparseable", slog.String("url", cart.CheckoutURL), slog.Any("error", err))
		return nil, model.NewCheckoutUpstream(err)
	}

	return &model.CheckoutSession{
		ID:            cart.ID,
		CheckoutURL:   checkoutURL,
		TotalQuantity: cart.TotalQuantity,
		TotalAmount: model.Money{
			Amount:       cart.Cost.TotalAmount.Amount,
			CurrencyCode: cart.Cost.TotalAmount.CurrencyCode,
		},
	}, nil
}

// checkoutLinesInput maps lines to the mutation's input shape, preserving
// order.
func checkoutLinesInput(lines []model.CheckoutLine) []map[string]any {
	out := make([]map[string]any, len(lines))
	for i, line := range lines {
		out[i] = map[string]any{
			"merchandiseId": line.VariantID,
			"quantity":      line.Quantity,
		}
	}
	return out
}

func joinUserErrors(errs []userError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, ", ")
}

// withChannelParam sets the channel attribution parameter on a checkout URL.
func withChannelParam(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(checkoutChannelParam, checkoutChannelValue)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
