package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	CookiesPath         string
	ScanInterval        time.Duration
	RecommendedCooldown time.Duration
	PageTimeout         time.Duration
	ThumbnailTimeout    time.Duration
	YouTubeBaseURL      string // page host, e.g. https://www.youtube.com
	ImageBaseURL        string // thumbnail host, e.g. https://img.youtube.com
	MediaPlayerEntity   string // "" = accept events from any player
	TrackAll            bool   // timer-only mode; player events are ignored
	ExtraAppIDs         []string
	TriggerMinInterval  time.Duration
	RedisURL            string
	StateTTL            time.Duration
	WatchLogDSN         string // sqlite path or postgres URL; "" = disabled
	HTTPClient          *http.Client
	BrowserClient       *BrowserClient // nil = plain net/http session
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
