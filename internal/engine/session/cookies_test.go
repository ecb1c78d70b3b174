package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCookies = "# Netscape HTTP Cookie File\n" +
	"# exported\n" +
	"\n" +
	".youtube.com\tTRUE\t/\tTRUE\t1999999999\tSID\tabc123\n" +
	"#HttpOnly_.youtube.com\tTRUE\t/\tTRUE\t0\tHSID\tdef456\n" +
	"www.youtube.com\tFALSE\t/feed\tFALSE\t0\tPREF\n"

func TestParseCookies(t *testing.T) {
	cookies, err := ParseCookies(strings.NewReader(sampleCookies))
	require.NoError(t, err)
	require.Len(t, cookies, 3)

	assert.Equal(t, Cookie{
		Domain: ".youtube.com", IncludeSubdomains: true, Path: "/", Secure: true,
		Expires: 1999999999, Name: "SID", Value: "abc123",
	}, cookies[0])
	assert.True(t, cookies[1].HTTPOnly)
	assert.Equal(t, "HSID", cookies[1].Name)
	assert.Equal(t, "PREF", cookies[2].Name)
	assert.Empty(t, cookies[2].Value)
}

func TestParseCookiesMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", ".youtube.com\tTRUE\t/\n"},
		{"bad expiry", ".youtube.com\tTRUE\t/\tTRUE\tsoon\tSID\tx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCookies(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadCookieFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCookieFile(filepath.Join(dir, "absent.txt"))
	assert.ErrorIs(t, err, ErrCookiesMissing)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# Netscape HTTP Cookie File\n\n"), 0o600))
	_, err = LoadCookieFile(empty)
	assert.ErrorIs(t, err, ErrCookiesEmpty)

	garbled := filepath.Join(dir, "garbled.txt")
	require.NoError(t, os.WriteFile(garbled, []byte("not a cookie line\n"), 0o600))
	_, err = LoadCookieFile(garbled)
	assert.ErrorIs(t, err, ErrCookiesUnreadable)
}

func TestWriteCookieFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	in, err := ParseCookies(strings.NewReader(sampleCookies))
	require.NoError(t, err)

	require.NoError(t, WriteCookieFile(path, in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := LoadCookieFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCookieMatches(t *testing.T) {
	sub := Cookie{Domain: ".youtube.com", IncludeSubdomains: true, Path: "/", Secure: true}
	host := Cookie{Domain: "www.youtube.com", Path: "/feed"}

	tests := []struct {
		name   string
		cookie Cookie
		url    string
		want   bool
	}{
		{"subdomain cookie on www", sub, "https://www.youtube.com/feed/history", true},
		{"secure cookie over http", sub, "http://www.youtube.com/", false},
		{"other domain", sub, "https://example.com/", false},
		{"host cookie path match", host, "http://www.youtube.com/feed/subscriptions", true},
		{"host cookie path miss", host, "http://www.youtube.com/watch", false},
		{"host cookie on subdomain", host, "http://m.www.youtube.com/feed", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := mustURL(t, tt.url)
			assert.Equal(t, tt.want, tt.cookie.matches(u))
		})
	}
}
