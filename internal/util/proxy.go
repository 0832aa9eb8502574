package util

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc creates a proxy function from explicit settings.
// Empty settings fall back to HTTP_PROXY, HTTPS_PROXY and NO_PROXY from the environment.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	cfg := httpproxy.FromEnvironment()
	if httpProxy != "" {
		cfg.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTPSProxy = httpsProxy
	}
	if noProxy != "" {
		cfg.NoProxy = noProxy
	}

	proxy := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}

// NewHTTPClient returns a client with the given timeout and proxy settings
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy, noProxy string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(httpProxy, httpsProxy, noProxy)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
