package engine

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"time"
)

// MaxPageBytes caps how much of a page body is read.
const MaxPageBytes = 16 * 1024 * 1024

// NewFetchClient creates an HTTP client for page fetches carrying the given cookie jar.
// Reuses the transport of base when it has one.
func NewFetchClient(base *http.Client, jar http.CookieJar, timeout time.Duration) *http.Client {
	transport := http.RoundTripper(&http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	if base != nil && base.Transport != nil {
		transport = base.Transport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// ReadResponseBody reads the response body, handling gzip decompression if needed.
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(io.LimitReader(gz, MaxPageBytes))
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
}
