// Package session builds the per-cycle authenticated HTTP session from an
// exported browser cookie file.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/anatolykoptev/go_ytwatch/internal/engine"
)

// ErrStatus wraps non-2xx page responses.
var ErrStatus = errors.New("unexpected HTTP status")

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 10 * time.Second

// Options configures Open.
type Options struct {
	CookiesPath string
	Timeout     time.Duration         // per request; 0 = DefaultTimeout
	HTTPClient  *http.Client          // transport source for the plain client
	Browser     *engine.BrowserClient // non-nil = fetch through the Chrome-fingerprint client
}

// Session carries the cookies of one fetch cycle.
type Session struct {
	path    string
	cookies []Cookie
	jar     *cookiejar.Jar
	client  *http.Client
	browser *engine.BrowserClient
	timeout time.Duration
}

// Open loads the cookie file and prepares a client. It fails with one of the
// credential errors when the file is missing, unreadable or empty.
func Open(opts Options) (*Session, error) {
	cookies, err := LoadCookieFile(opts.CookiesPath)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	for _, c := range cookies {
		jar.SetCookies(c.originURL(), []*http.Cookie{c.httpCookie()})
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	slog.Debug("session: cookies loaded", slog.Int("count", len(cookies)), slog.Bool("browser", opts.Browser != nil))
	return &Session{
		path:    opts.CookiesPath,
		cookies: cookies,
		jar:     jar,
		client:  engine.NewFetchClient(opts.HTTPClient, jar, timeout),
		browser: opts.Browser,
		timeout: timeout,
	}, nil
}

// CookieCount returns the number of cookies loaded from the file.
func (s *Session) CookieCount() int {
	return len(s.cookies)
}

// Get fetches rawURL with browser-like headers and the session cookies.
// Non-2xx statuses are returned as ErrStatus.
func (s *Session) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if s.browser != nil {
		return s.getBrowser(ctx, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.UserAgentChrome)
	req.Header.Set("Accept", engine.AcceptHTML)
	req.Header.Set("Accept-Language", engine.AcceptLanguage)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Sec-Fetch-Mode", "navigate")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, rawURL)
	}
	body, err := engine.ReadResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}

// getBrowser fetches through the TLS-fingerprinting client. Cookies go out as an
// explicit header since that client keeps its own jar.
func (s *Session) getBrowser(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	headers := maps.Clone(engine.ChromeHeaders())
	headers["accept-language"] = engine.AcceptLanguage
	if cookie := s.cookieHeader(u); cookie != "" {
		headers["cookie"] = cookie
	}

	data, _, status, err := s.browser.Do(http.MethodGet, rawURL, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, status, rawURL)
	}
	return data, nil
}

// cookieHeader renders the file cookies that apply to u.
func (s *Session) cookieHeader(u *url.URL) string {
	var parts []string
	for _, c := range s.cookies {
		if c.matches(u) {
			parts = append(parts, c.Name+"="+c.Value)
		}
	}
	return strings.Join(parts, "; ")
}

// Save writes the cookie file back with values refreshed from the jar.
func (s *Session) Save() error {
	for i, c := range s.cookies {
		for _, hc := range s.jar.Cookies(c.originURL()) {
			if hc.Name == c.Name {
				s.cookies[i].Value = hc.Value
				break
			}
		}
	}
	if err := WriteCookieFile(s.path, s.cookies); err != nil {
		return fmt.Errorf("save cookies %s: %w", s.path, err)
	}
	return nil
}
