package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the transport proxy selector from the configured
// http_proxy/https_proxy values. With both empty, the standard
// environment variables apply, so deployments behind an egress proxy
// need no config at all.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
