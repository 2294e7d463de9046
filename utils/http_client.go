package utils

import (
	"net"
	"net/http"
	"time"
)

// FetchTimeout bounds a single backend request.
const FetchTimeout = 15 * time.Second

var (
	// GlobalHTTPClient is a shared HTTP client with sane defaults.
	GlobalHTTPClient *http.Client
)

func init() {
	GlobalHTTPClient = NewHTTPClient(FetchTimeout)
}

// NewHTTPClient returns a pooled client whose requests are bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   2,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
