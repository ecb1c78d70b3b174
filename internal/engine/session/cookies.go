package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Credential errors. Any of them makes the whole cycle invalid.
var (
	ErrCookiesMissing    = errors.New("cookies file not found")
	ErrCookiesEmpty      = errors.New("cookies file is empty")
	ErrCookiesUnreadable = errors.New("cookies file unreadable")
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// Cookie is one line of a Netscape/Mozilla cookies.txt file.
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	HTTPOnly          bool
	Expires           int64 // unix seconds, 0 = session
	Name              string
	Value             string
}

// LoadCookieFile reads and parses a cookies.txt file. It must hold at least one cookie.
func LoadCookieFile(path string) ([]Cookie, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCookiesMissing, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrCookiesUnreadable, err)
	}
	defer f.Close()

	cookies, err := ParseCookies(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCookiesUnreadable, path, err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCookiesEmpty, path)
	}
	return cookies, nil
}

// ParseCookies parses Netscape cookie lines. Comments and blank lines are skipped;
// "#HttpOnly_" prefixed lines are cookies.
func ParseCookies(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) == 6 {
			fields = append(fields, "")
		}
		if len(fields) != 7 {
			return nil, fmt.Errorf("line %d: expected 7 tab-separated fields, got %d", lineNo, len(fields))
		}
		var expires int64
		if s := strings.TrimSpace(fields[4]); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: expires: %w", lineNo, err)
			}
			expires = v
		}
		cookies = append(cookies, Cookie{
			Domain:            fields[0],
			IncludeSubdomains: strings.EqualFold(fields[1], "TRUE"),
			Path:              fields[2],
			Secure:            strings.EqualFold(fields[3], "TRUE"),
			HTTPOnly:          httpOnly,
			Expires:           expires,
			Name:              fields[5],
			Value:             fields[6],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}

// WriteCookieFile writes cookies in Netscape format, replacing path atomically.
func WriteCookieFile(path string, cookies []Cookie) error {
	path = filepath.Clean(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cookies-*.txt")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintln(w, netscapeHeader)
	fmt.Fprintln(w)
	for _, c := range cookies {
		fmt.Fprintln(w, c.line())
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write cookies: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod cookies: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cookies: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (c Cookie) line() string {
	domain := c.Domain
	if c.HTTPOnly {
		domain = httpOnlyPrefix + domain
	}
	return strings.Join([]string{
		domain,
		boolField(c.IncludeSubdomains),
		c.Path,
		boolField(c.Secure),
		strconv.FormatInt(c.Expires, 10),
		c.Name,
		c.Value,
	}, "\t")
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (c Cookie) host() string {
	return strings.TrimPrefix(c.Domain, ".")
}

// originURL is the URL the cookie is registered against in a jar.
func (c Cookie) originURL() *url.URL {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	return &url.URL{Scheme: scheme, Host: c.host(), Path: path}
}

// httpCookie converts to a jar cookie. Expiry is left unset so stale exported
// cookies are still sent, as the browser export intended.
func (c Cookie) httpCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
	if c.IncludeSubdomains {
		hc.Domain = c.host()
	}
	return hc
}

// matches reports whether the cookie would be sent with a request to u.
func (c Cookie) matches(u *url.URL) bool {
	if c.Secure && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain := strings.ToLower(c.host())
	switch {
	case host == domain:
	case c.IncludeSubdomains && strings.HasSuffix(host, "."+domain):
	default:
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return c.Path == "" || strings.HasPrefix(path, c.Path)
}
