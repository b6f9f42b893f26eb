package proxy

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/haytac/emoji-translator/internal/config"
	"golang.org/x/net/proxy"
)

// DefaultHTTPClientFactory builds HTTP clients that go through the configured
// outbound proxy, if any.
type DefaultHTTPClientFactory struct {
	proxy   config.ProxyConfig
	timeout time.Duration
}

// NewHTTPClientFactory creates a factory for p. A zero ProxyConfig means a
// direct connection honouring the usual proxy environment variables.
func NewHTTPClientFactory(p config.ProxyConfig, timeout time.Duration) *DefaultHTTPClientFactory {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &DefaultHTTPClientFactory{proxy: p, timeout: timeout}
}

// GetClient returns an HTTP client configured with the factory's proxy.
func (f *DefaultHTTPClientFactory) GetClient() (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if p := f.proxy; p.Address != "" {
		proxyURL, err := url.Parse(fmt.Sprintf("%s://%s", p.Type, p.Address))
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL for %s: %w", p.Address, err)
		}
		if p.Username != "" {
			proxyURL.User = url.UserPassword(p.Username, p.Password)
		}

		switch p.Type {
		case "http", "https":
			transport.Proxy = http.ProxyURL(proxyURL)
		case "socks5":
			dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", p.Address, err)
			}
			contextDialer, ok := dialer.(proxy.ContextDialer)
			if !ok {
				return nil, fmt.Errorf("SOCKS5 dialer does not implement proxy.ContextDialer")
			}
			transport.DialContext = contextDialer.DialContext
			transport.Proxy = nil
		default:
			return nil, fmt.Errorf("unsupported proxy type: %q", p.Type)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
	}, nil
}
