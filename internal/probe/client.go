package probe

import (
	"net"
	"net/http"
	"time"
)

// newHTTPClient returns a client with its own transport so a run can release
// its connections when it is done.
func newHTTPClient() (*http.Client, *http.Transport) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		ForceAttemptHTTP2:   false,
		// Header timeout for slow handlers
		ResponseHeaderTimeout: 30 * time.Second,
	}

	client := &http.Client{
		Transport: tr,
		Timeout:   0, // per-request deadlines come from the context
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// report redirects as-is
			return http.ErrUseLastResponse
		},
	}
	return client, tr
}
