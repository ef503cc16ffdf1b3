// Package storefront implements the catalog client and checkout session
// builder against the remote storefront GraphQL API.
//
// Failure policy differs by operation class. Catalog reads never return
// errors: transport failures, non-2xx statuses (including the feature-gated
// 402), application-level errors, and malformed payloads all degrade to an
// empty list or nil, with the cause logged so operators can observe backend
// health without breaking the page. Checkout creation is the opposite: it has
// no safe silent fallback, so every failure is returned as a typed error.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"time"

	"storefront-core/internal/model"
	"storefront-core/internal/transport"
)

const (
	// defaultAPIVersion pins the storefront API release the queries were
	// written against.
	defaultAPIVersion = "2025-07"

	// accessTokenHeader authenticates every request.
	accessTokenHeader = "X-Shopify-Storefront-Access-Token"

	// productPageSize bounds the product listing query.
	productPageSize = 50

	// defaultMaxRetries is how often a transport-level failure is retried.
	// Non-2xx responses are never retried; the degradation policy applies.
	defaultMaxRetries = 2

	retryBackoffBase = 100 * time.Millisecond
)

// handlePattern matches well-formed product handles. Anything else is
// rejected before a network call is made.
var handlePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Config holds storefront client configuration.
type Config struct {
	// StoreDomain is the shop's permanent domain, e.g. "shop.example.com".
	StoreDomain string

	// AccessToken is the public storefront API token.
	AccessToken string

	// APIVersion overrides the pinned API version. Optional.
	APIVersion string

	// MaxRetries bounds retries of transport-level failures. Zero means
	// the default; negative disables retries.
	MaxRetries int

	// HTTPClient overrides the default fingerprinting client. Used in tests.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client talks to one shop's storefront API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	maxRetries int
	logger     *slog.Logger
}

// New creates a storefront client.
func New(cfg Config) (*Client, error) {
	if cfg.StoreDomain == "" {
		return nil, fmt.Errorf("store domain is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("storefront access token is required")
	}

	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	retries := cfg.MaxRetries
	if retries == 0 {
		retries = defaultMaxRetries
	} else if retries < 0 {
		retries = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport.New(30 * time.Second),
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, version),
		token:      cfg.AccessToken,
		maxRetries: retries,
		logger:     logger,
	}, nil
}

// execute POSTs a query document and returns the data payload.
// All failure modes collapse into an error; callers decide whether that
// degrades (catalog reads) or propagates (checkout).
func (c *Client) execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		// The storefront API is feature-gated on this shop's plan.
		return nil, fmt.Errorf("%w: storefront API access is gated (status 402)", model.ErrUpstream)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", model.ErrUpstream, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", model.ErrUpstream, err)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %w", model.ErrUpstream, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("%w: graphql errors: %s", model.ErrUpstream, joinErrorMessages(envelope.Errors))
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("%w: response carries no data", model.ErrUpstream)
	}

	return envelope.Data, nil
}

// post sends the request, retrying transport-level failures with jittered
// backoff. HTTP responses, whatever their status, are returned as-is.
func (c *Client) post(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * retryBackoffBase
			backoff += time.Duration(rand.Int63n(int64(retryBackoffBase)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			c.logger.Debug("retrying storefront request",
				slog.Int("attempt", attempt),
				slog.String("last_error", lastErr.Error()),
			)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(accessTokenHeader, c.token)

		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func joinErrorMessages(errs []graphQLError) string {
	joined := ""
	for i, e := range errs {
		if i > 0 {
			joined += ", "
		}
		joined += e.Message
	}
	return joined
}

// FetchProducts queries the catalog for up to productPageSize products.
// Returns an empty slice on any failure; never nil, never an error.
func (c *Client) FetchProducts(ctx context.Context) []model.Product {
	data, err := c.execute(ctx, productsQuery, map[string]any{"first": productPageSize})
	if err != nil {
		c.logger.Warn("catalog listing degraded to empty", slog.Any("error", err))
		return []model.Product{}
	}

	var envelope productsEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Warn("catalog listing degraded to empty",
			slog.String("reason", "malformed data payload"),
			slog.Any("error", err),
		)
		return []model.Product{}
	}

	products := make([]model.Product, 0, len(envelope.Products.Edges))
	for _, edge := range envelope.Products.Edges {
		p, err := productFromNode(edge.Node)
		if err != nil {
			// Partial data must not leak: one bad record empties the page.
			c.logger.Warn("catalog listing degraded to empty",
				slog.String("reason", "normalization failed"),
				slog.Any("error", err),
			)
			return []model.Product{}
		}
		products = append(products, p)
	}
	return products
}

// FetchProductByHandle fetches one product by its handle.
// Returns nil on any failure, on "not found," and for malformed handles
// (the latter without a network call).
func (c *Client) FetchProductByHandle(ctx context.Context, handle string) *model.Product {
	if !handlePattern.MatchString(handle) {
		c.logger.Warn("rejecting malformed product handle", slog.String("handle", handle))
		return nil
	}

	data, err := c.execute(ctx, productByHandleQuery, map[string]any{"handle": handle})
	if err != nil {
		c.logger.Warn("product lookup degraded to nil",
			slog.String("handle", handle),
			slog.Any("error", err),
		)
		return nil
	}

	var envelope productByHandleEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Warn("product lookup degraded to nil",
			slog.String("handle", handle),
			slog.String("reason", "malformed data payload"),
			slog.Any("error", err),
		)
		return nil
	}
	if envelope.ProductByHandle == nil {
		c.logger.Info("product not found", slog.String("handle", handle))
		return nil
	}

	p, err := productFromNode(*envelope.ProductByHandle)
	if err != nil {
		c.logger.Warn("product lookup degraded to nil",
			slog.String("handle", handle),
			slog.String("reason", "normalization failed"),
			slog.Any("error", err),
		)
		return nil
	}
	return &p
}
