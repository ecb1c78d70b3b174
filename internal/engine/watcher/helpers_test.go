package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/watchlog"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

type obj = map[string]any
type arr = []any

func lockupItem(id, title string) obj {
	return obj{"lockupViewModel": obj{
		"contentId":   id,
		"contentType": "LOCKUP_CONTENT_TYPE_VIDEO",
		"metadata": obj{"lockupMetadataViewModel": obj{
			"title": obj{"content": title},
			"metadata": obj{"contentMetadataViewModel": obj{
				"metadataRows": arr{obj{"metadataParts": arr{obj{"text": obj{"content": "Chan"}}}}},
			}},
		}},
	}}
}

func tabs(ts ...any) obj {
	return obj{"contents": obj{"twoColumnBrowseResultsRenderer": obj{"tabs": arr(ts)}}}
}

func historyPage(items ...any) obj {
	return tabs(obj{"tabRenderer": obj{"content": obj{"sectionListRenderer": obj{"contents": arr{
		obj{"itemSectionRenderer": obj{"contents": arr(items)}},
	}}}}})
}

func channelsPage(names ...string) obj {
	items := arr{}
	for _, n := range names {
		items = append(items, obj{"channelRenderer": obj{"title": obj{"simpleText": n}}})
	}
	return tabs(obj{"tabRenderer": obj{"content": obj{"sectionListRenderer": obj{"contents": arr{
		obj{"itemSectionRenderer": obj{"contents": arr{
			obj{"shelfRenderer": obj{"content": obj{"expandedShelfContentsRenderer": obj{"items": items}}}},
		}}},
	}}}}})
}

func homePage(ids ...string) obj {
	items := arr{}
	for _, id := range ids {
		items = append(items, obj{"richItemRenderer": obj{"content": lockupItem(id, "Rec "+id)}})
	}
	return tabs(obj{"tabRenderer": obj{"selected": true, "content": obj{"richGridRenderer": obj{"contents": items}}}})
}

func render(t *testing.T, data obj) string {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	return fmt.Sprintf(`<!DOCTYPE html><html><body><script nonce="n">var ytInitialData = %s;</script></body></html>`, b)
}

// fakeYouTube serves pages and thumbnails; handlers can be swapped between cycles.
type fakeYouTube struct {
	*httptest.Server
	mu    sync.Mutex
	pages map[string]func(w http.ResponseWriter, r *http.Request)
	hits  map[string]int
}

func newFakeYouTube(t *testing.T) *fakeYouTube {
	t.Helper()
	f := &fakeYouTube{
		pages: map[string]func(http.ResponseWriter, *http.Request){},
		hits:  map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		h := f.pages[r.URL.Path]
		f.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeYouTube) page(path, body string) {
	f.handle(path, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	})
}

func (f *fakeYouTube) status(path string, code int) {
	f.handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	})
}

func (f *fakeYouTube) handle(path string, h func(http.ResponseWriter, *http.Request)) {
	f.mu.Lock()
	f.pages[path] = h
	f.mu.Unlock()
}

func (f *fakeYouTube) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func writeCookieFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("# Netscape HTTP Cookie File\n127.0.0.1\tFALSE\t/\tFALSE\t0\tSID\tsecret\n"), 0o600))
	return path
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memLog struct {
	mu      sync.Mutex
	entries []watchlog.Entry
}

func (m *memLog) Append(_ context.Context, e watchlog.Entry) error {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return nil
}

func (m *memLog) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.VideoID)
	}
	return out
}

type harness struct {
	yt      *fakeYouTube
	clock   *fakeClock
	log     *memLog
	cookies string
	w       *Watcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		yt:      newFakeYouTube(t),
		clock:   &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)},
		log:     &memLog{},
		cookies: writeCookieFile(t),
	}
	h.yt.page("/feed/history", render(t, historyPage(lockupItem("h1", "Watched"))))
	h.yt.page("/feed/channels", render(t, channelsPage("Alpha", "Beta")))
	h.yt.page("/", render(t, homePage("r1", "r2", "r3", "r4", "r5")))
	h.yt.handle("/vi/h1/maxresdefault.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h.w = New(Options{
		CookiesPath:         h.cookies,
		BaseURL:             h.yt.URL,
		RecommendedCooldown: 30 * time.Minute,
		PageTimeout:         2 * time.Second,
		HTTPClient:          h.yt.Client(),
		Thumbnails:          youtube.NewThumbnailResolver(h.yt.Client(), h.yt.URL, time.Second),
		WatchLog:            h.log,
		Now:                 h.clock.Now,
	})
	return h
}
