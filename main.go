// go_ytwatch: YouTube "currently watching" MCP server.
//
// Scrapes the signed-in account's watch history, subscriptions and home feed
// with an exported cookie file, and exposes the latest results as MCP tools
// for a home-automation host to poll. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytwatch/internal/engine"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/watcher"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/watchlog"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
	"github.com/anatolykoptev/go_ytwatch/internal/watchserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8895")
)

func main() {
	initLogger(env.Str("LOG_LEVEL", "info"))
	initEngine()
	c := engine.Cfg

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store watchlog.Store
	if c.WatchLogDSN != "" {
		s, err := watchlog.Open(ctx, c.WatchLogDSN)
		if err != nil {
			slog.Warn("watch log init failed, running without it", slog.Any("error", err))
		} else {
			store = s
			defer store.Close()
			slog.Info("watch log initialized")
		}
	}

	opts := watcher.Options{
		CookiesPath:         c.CookiesPath,
		BaseURL:             c.YouTubeBaseURL,
		ScanInterval:        c.ScanInterval,
		RecommendedCooldown: c.RecommendedCooldown,
		PageTimeout:         c.PageTimeout,
		HTTPClient:          c.HTTPClient,
		Browser:             c.BrowserClient,
		Thumbnails:          youtube.NewThumbnailResolver(c.HTTPClient, c.ImageBaseURL, c.ThumbnailTimeout),
	}
	if store != nil {
		opts.WatchLog = store
	}
	w := watcher.New(opts)
	trigger := watcher.NewTrigger(w, watcher.TriggerOptions{
		EntityID:    c.MediaPlayerEntity,
		TrackAll:    c.TrackAll,
		ExtraAppIDs: c.ExtraAppIDs,
		MinInterval: c.TriggerMinInterval,
	})
	go w.Run(ctx)

	slog.Info("starting go_ytwatch",
		slog.String("port", mcpPort),
		slog.String("cookies", c.CookiesPath),
		slog.Duration("scan_interval", c.ScanInterval),
		slog.Bool("track_all", c.TrackAll),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytwatch",
		Version: version,
	}, nil)

	watchserver.RegisterTools(server, watchserver.Deps{
		Watcher:  w,
		Trigger:  trigger,
		WatchLog: store,
	})
	slog.Info("tools registered", slog.Int("count", watchserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytwatch",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
	if err := engine.CloseStateStore(); err != nil {
		slog.Warn("state store close failed", slog.Any("error", err))
	}
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func initEngine() {
	trackAll, _ := strconv.ParseBool(env.Str("TRACK_ALL", "false"))
	c := engine.Config{
		CookiesPath:         env.Str("YOUTUBE_COOKIES_PATH", "/config/youtube_cookies.txt"),
		ScanInterval:        env.Duration("SCAN_INTERVAL", 30*time.Second),
		RecommendedCooldown: env.Duration("RECOMMENDED_COOLDOWN", 30*time.Minute),
		PageTimeout:         env.Duration("PAGE_TIMEOUT", 10*time.Second),
		ThumbnailTimeout:    env.Duration("THUMBNAIL_TIMEOUT", 3*time.Second),
		YouTubeBaseURL:      env.Str("YOUTUBE_BASE_URL", watcher.DefaultBaseURL),
		ImageBaseURL:        env.Str("YOUTUBE_IMAGE_URL", youtube.DefaultImageBaseURL),
		MediaPlayerEntity:   env.Str("MEDIA_PLAYER_ENTITY", ""),
		TrackAll:            trackAll,
		ExtraAppIDs:         env.List("YOUTUBE_APP_IDS", ""),
		TriggerMinInterval:  env.Duration("TRIGGER_MIN_INTERVAL", 5*time.Second),
		RedisURL:            env.Str("REDIS_URL", ""),
		StateTTL:            env.Duration("STATE_TTL", time.Hour),
		WatchLogDSN:         env.Str("WATCHLOG_DSN", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if useBrowser, _ := strconv.ParseBool(env.Str("BROWSER_TLS", "false")); useBrowser {
		c.BrowserClient = newBrowserClient()
	}

	engine.Init(c)
	engine.InitStateStore(c.RedisURL, c.StateTTL)
}

// newBrowserClient builds the Chrome-fingerprint client, optionally behind the
// Webshare proxy pool. Returns nil on failure; page fetches then use net/http.
func newBrowserClient() *engine.BrowserClient {
	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := strings.TrimSpace(env.Str("WEBSHARE_API_KEY", "")); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
		return nil
	}
	slog.Info("stealth browser client initialized")
	return bc
}
