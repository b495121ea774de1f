package tool

import (
	"net/http"
	"time"

	"github.com/moyoez/fileuploader/types"
)

// NewHTTPClient creates the client used for uploads. A zero timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewHTTPClientFromConfig builds the upload client from timeoutSeconds.
func NewHTTPClientFromConfig(cfg *types.AppConfig) *http.Client {
	return NewHTTPClient(time.Duration(cfg.TimeoutSeconds) * time.Second)
}
