package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/anatolykoptev/go_ytwatch/internal/engine"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/session"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/watchlog"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

var (
	// ErrCycleInFlight is returned by Refresh when another cycle is running.
	ErrCycleInFlight = errors.New("watcher: cycle already in flight")
	// ErrCredentials wraps session failures. The host shows "update failed".
	ErrCredentials = errors.New("watcher: credentials unavailable")
)

// Page paths relative to the YouTube base URL.
const (
	pathHistory         = "/feed/history"
	pathSubscriptions   = "/feed/channels"
	pathRecommendations = "/"
)

// Defaults applied by New.
const (
	DefaultBaseURL             = "https://www.youtube.com"
	DefaultScanInterval        = 30 * time.Second
	DefaultRecommendedCooldown = 30 * time.Minute
)

// slowPage is the duration after which a page fetch is logged as slow.
const slowPage = 5 * time.Second

// StateKey is the Redis key the snapshot is published under.
var StateKey = engine.StateKey("snapshot")

// WatchLog receives each new history record.
type WatchLog interface {
	Append(ctx context.Context, e watchlog.Entry) error
}

// Options configures a Watcher.
type Options struct {
	CookiesPath         string
	BaseURL             string
	ScanInterval        time.Duration
	RecommendedCooldown time.Duration
	PageTimeout         time.Duration
	HTTPClient          *http.Client
	Browser             *engine.BrowserClient
	Thumbnails          *youtube.ThumbnailResolver
	WatchLog            WatchLog         // optional
	Now                 func() time.Time // optional clock
}

// Watcher runs fetch cycles and owns the State.
type Watcher struct {
	opts     Options
	state    State
	inFlight atomic.Bool

	// lastRecommended is touched only by the cycle holding inFlight.
	lastRecommended time.Time
}

// New returns a Watcher with defaults filled in.
func New(opts Options) *Watcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.ScanInterval <= 0 {
		opts.ScanInterval = DefaultScanInterval
	}
	if opts.RecommendedCooldown <= 0 {
		opts.RecommendedCooldown = DefaultRecommendedCooldown
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = session.DefaultTimeout
	}
	if opts.Thumbnails == nil {
		opts.Thumbnails = youtube.NewThumbnailResolver(opts.HTTPClient, "", 0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Watcher{opts: opts}
}

// Snapshot returns a copy of the current fetch result.
func (w *Watcher) Snapshot() Snapshot {
	return w.state.Snapshot()
}

// Refresh runs one fetch cycle unless one is already running, in which case it
// returns ErrCycleInFlight without waiting.
func (w *Watcher) Refresh(ctx context.Context, reason string) error {
	if !w.inFlight.CompareAndSwap(false, true) {
		engine.IncrCycleCoalesced()
		slog.Debug("watcher: refresh coalesced", slog.String("reason", reason))
		return ErrCycleInFlight
	}
	defer w.inFlight.Store(false)

	engine.IncrCycle()
	start := time.Now()
	err := w.cycle(ctx)
	if err != nil {
		engine.IncrCycleFailure()
		slog.Warn("watcher: cycle failed", slog.String("reason", reason), slog.Any("error", err))
		return err
	}
	slog.Debug("watcher: cycle done", slog.String("reason", reason), slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Run refreshes immediately and then on every scan interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	_ = w.Refresh(ctx, "startup")

	ticker := time.NewTicker(w.opts.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = w.Refresh(ctx, "timer")
		}
	}
}

func (w *Watcher) cycle(ctx context.Context) error {
	sess, err := session.Open(session.Options{
		CookiesPath: w.opts.CookiesPath,
		Timeout:     w.opts.PageTimeout,
		HTTPClient:  w.opts.HTTPClient,
		Browser:     w.opts.Browser,
	})
	if err != nil {
		w.state.invalidate(w.opts.Now())
		w.publish(ctx)
		return fmt.Errorf("%w: %w", ErrCredentials, err)
	}

	prev := w.state.Snapshot()
	var u update

	engine.IncrHistoryFetch()
	if doc, ok := w.fetchDocument(ctx, sess, pathHistory); ok {
		u.historyFetched = true
		if rec, found := youtube.LocateHistory(doc); found {
			rec.ThumbnailURL = w.opts.Thumbnails.Resolve(ctx, rec.VideoID)
			u.history = &rec
		}
		if err := sess.Save(); err != nil {
			slog.Warn("watcher: cookie save failed", slog.Any("error", err))
		}
	}

	engine.IncrSubscriptionFetch()
	if doc, ok := w.fetchDocument(ctx, sess, pathSubscriptions); ok {
		subs := youtube.LocateSubscriptions(doc)
		u.subscriptionsFetched = true
		u.subscriptions = &subs
	}

	now := w.opts.Now()
	if w.recommendationsDue(now) {
		engine.IncrRecommendedFetch()
		if doc, ok := w.fetchDocument(ctx, sess, pathRecommendations); ok {
			recs := youtube.LocateRecommendations(doc)
			w.opts.Thumbnails.ResolveAll(ctx, recs)
			u.recommendationsFetched = true
			u.recommendations = recs
			if len(recs) > 0 {
				w.lastRecommended = now
			}
		}
	} else {
		engine.IncrRecommendedSkipped()
	}

	u.at = w.opts.Now()
	w.state.apply(u)

	if u.history != nil && (prev.History == nil || prev.History.VideoID != u.history.VideoID) {
		w.logHistory(ctx, *u.history, u.at)
	}
	w.publish(ctx)
	return nil
}

// recommendationsDue reports whether the cooldown since the last productive
// recommendations fetch has elapsed.
func (w *Watcher) recommendationsDue(now time.Time) bool {
	return w.lastRecommended.IsZero() || now.Sub(w.lastRecommended) > w.opts.RecommendedCooldown
}

// fetchDocument fetches a page and decodes its ytInitialData. Any failure is
// logged and reported as !ok; the caller keeps its previous value.
func (w *Watcher) fetchDocument(ctx context.Context, sess *session.Session, path string) (youtube.Document, bool) {
	var page []byte
	err := engine.TrackOperation(ctx, "fetch "+path, slowPage, func(ctx context.Context) error {
		var err error
		page, err = sess.Get(ctx, w.opts.BaseURL+path)
		return err
	})
	if err != nil {
		engine.IncrFetchError()
		slog.Warn("watcher: page fetch failed", slog.String("path", path), slog.Any("error", err))
		return nil, false
	}

	doc, err := youtube.DecodeInitialData(page)
	if err != nil {
		engine.IncrDecodeError()
		slog.Warn("watcher: page decode failed", slog.String("path", path), slog.Any("error", err))
		return nil, false
	}
	return doc, true
}

func (w *Watcher) logHistory(ctx context.Context, rec youtube.VideoRecord, at time.Time) {
	if w.opts.WatchLog == nil || rec.VideoID == youtube.NotAvailable {
		return
	}
	if err := w.opts.WatchLog.Append(ctx, watchlog.NewEntry(rec, at)); err != nil {
		slog.Warn("watcher: watch log append failed", slog.String("video_id", rec.VideoID), slog.Any("error", err))
		return
	}
	engine.IncrWatchLogAppend()
}

func (w *Watcher) publish(ctx context.Context) {
	if !engine.StatePublishingEnabled() {
		return
	}
	if err := engine.PublishState(ctx, StateKey, w.state.Snapshot()); err != nil {
		slog.Warn("watcher: state publish failed", slog.Any("error", err))
	}
}
