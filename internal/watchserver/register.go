package watchserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/watcher"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/watchlog"
)

// Watcher is the part of watcher.Watcher the tools read and drive.
type Watcher interface {
	Snapshot() watcher.Snapshot
	Refresh(ctx context.Context, reason string) error
}

// Deps wires the tools to the running watcher. WatchLog may be nil.
type Deps struct {
	Watcher  Watcher
	Trigger  *watcher.Trigger
	WatchLog watchlog.Store
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 7

// RegisterTools registers the output surface (youtube_watching,
// youtube_subscriptions, youtube_recommended, youtube_cookies_status,
// youtube_watch_log) and the control tools (youtube_refresh, media_player_event).
func RegisterTools(server *mcp.Server, d Deps) {
	registerWatching(server, d)
	registerSubscriptions(server, d)
	registerRecommended(server, d)
	registerCookieStatus(server, d)
	registerWatchLog(server, d)
	registerRefresh(server, d)
	registerPlayerEvent(server, d)
}

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}
