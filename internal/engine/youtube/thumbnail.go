package youtube

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go_ytwatch/internal/engine"
)

// DefaultImageBaseURL serves the /vi/{id}/ thumbnail assets.
const DefaultImageBaseURL = "https://img.youtube.com"

// DefaultProbeTimeout bounds the maxres existence probe.
const DefaultProbeTimeout = 3 * time.Second

// ThumbnailResolver picks the best thumbnail URL for a video id.
type ThumbnailResolver struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// NewThumbnailResolver returns a resolver. Empty baseURL and zero timeout use the defaults.
func NewThumbnailResolver(client *http.Client, baseURL string, timeout time.Duration) *ThumbnailResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &ThumbnailResolver{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
	}
}

// Resolve returns the maxres URL when a single probe answers 200, else the 0.jpg
// fallback. Empty or unresolved ids yield "".
func (r *ThumbnailResolver) Resolve(ctx context.Context, videoID string) string {
	if videoID == "" || videoID == NotAvailable {
		return ""
	}
	base := r.baseURL + "/vi/" + videoID
	maxres := base + "/maxresdefault.jpg"
	fallback := base + "/0.jpg"

	engine.IncrThumbnailProbe()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, maxres, nil)
	if err != nil {
		return fallback
	}
	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("thumbnail: probe failed", slog.String("video_id", videoID), slog.Any("error", err))
		engine.IncrThumbnailFallback()
		return fallback
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		engine.IncrThumbnailFallback()
		return fallback
	}
	return maxres
}

// ResolveAll fills ThumbnailURL of each record in place.
func (r *ThumbnailResolver) ResolveAll(ctx context.Context, recs []VideoRecord) {
	for i := range recs {
		recs[i].ThumbnailURL = r.Resolve(ctx, recs[i].VideoID)
	}
}
