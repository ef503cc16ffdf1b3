// Package transport provides the HTTP transport used for storefront API
// calls.
//
// The storefront endpoint sits behind a CDN that rate-limits clients by TLS
// fingerprint, and Go's native ClientHello is distinctive enough to trip it.
// The round tripper here handshakes with uTLS presenting a Chrome
// fingerprint, lets ALPN pick the protocol, and frames HTTP/2 with
// golang.org/x/net when the server negotiates h2.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// New returns an http.RoundTripper presenting a Chrome TLS fingerprint.
// timeout bounds the TCP dial; request deadlines are the caller's business.
func New(timeout time.Duration) http.RoundTripper {
	dialer := &net.Dialer{Timeout: timeout}

	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialFingerprintTLS(ctx, dialer, network, addr)
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialFingerprintTLS(ctx, dialer, network, addr)
			},
			ForceAttemptHTTP2: false,
		},
	}
}

// fingerprintTransport prefers HTTP/2 and falls back to HTTP/1.1 for servers
// that refuse h2.
type fingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	return t.h1.RoundTrip(req)
}

// dialFingerprintTLS dials addr and completes a uTLS handshake with Chrome's
// ClientHello. ALPN is left to the fingerprint's defaults (h2, http/1.1).
func dialFingerprintTLS(ctx context.Context, dialer *net.Dialer, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloChrome_Auto)
	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
