package watchserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/watcher"
	"github.com/anatolykoptev/go_ytwatch/internal/toolutil"
)

// RefreshOutput is the result of youtube_refresh.
type RefreshOutput struct {
	Status   string                  `json:"status"` // "updated" or "in_flight"
	Watching toolutil.WatchingOutput `json:"watching"`
}

// PlayerEventOutput is the result of media_player_event.
type PlayerEventOutput struct {
	Outcome watcher.Outcome `json:"outcome"`
}

// WatchLogInput is the input for youtube_watch_log.
type WatchLogInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of entries, newest first (default 20, max 200)"`
}

// WatchLogEntry is one logged video; WatchedAt is RFC 3339.
type WatchLogEntry struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Duration  string `json:"duration"`
	URL       string `json:"url"`
	WatchedAt string `json:"watched_at"`
}

// WatchLogOutput lists logged videos.
type WatchLogOutput struct {
	Entries []WatchLogEntry `json:"entries"`
	Total   int             `json:"total"`
}

func registerRefresh(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_refresh",
		Description: "Run a fetch cycle now (history, subscriptions, and recommendations when their cooldown has passed). Returns in_flight without waiting if a cycle is already running.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, RefreshOutput, error) {
		err := d.Watcher.Refresh(ctx, "tool")
		switch {
		case errors.Is(err, watcher.ErrCycleInFlight):
			return nil, RefreshOutput{Status: "in_flight", Watching: toolutil.Watching(d.Watcher.Snapshot())}, nil
		case err != nil:
			return nil, RefreshOutput{}, fmt.Errorf("update failed: %w", err)
		}
		return nil, RefreshOutput{Status: "updated", Watching: toolutil.Watching(d.Watcher.Snapshot())}, nil
	})
}

func registerPlayerEvent(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "media_player_event",
		Description: "Report a media player state change. A transition into playing on a YouTube app (by app_id, app_name, source, media_content_id or media_title) with a new title triggers a background refresh.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input watcher.PlayerEvent) (*mcp.CallToolResult, PlayerEventOutput, error) {
		if input.NewState == "" {
			return nil, PlayerEventOutput{}, errors.New("new_state is required")
		}
		return nil, PlayerEventOutput{Outcome: d.Trigger.Handle(ctx, input)}, nil
	})
}

func registerWatchLog(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_watch_log",
		Description: "Recently watched videos recorded by this server, newest first. Each distinct video at the top of the watch history is logged once.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input WatchLogInput) (*mcp.CallToolResult, WatchLogOutput, error) {
		if d.WatchLog == nil {
			return nil, WatchLogOutput{}, errors.New("watch log is disabled (set WATCHLOG_DSN)")
		}
		entries, err := d.WatchLog.Recent(ctx, input.Limit)
		if err != nil {
			return nil, WatchLogOutput{}, err
		}
		out := WatchLogOutput{Entries: make([]WatchLogEntry, 0, len(entries)), Total: len(entries)}
		for _, e := range entries {
			out.Entries = append(out.Entries, WatchLogEntry{
				VideoID:   e.VideoID,
				Title:     e.Title,
				Channel:   e.Channel,
				Duration:  e.Duration,
				URL:       e.URL,
				WatchedAt: e.WatchedAt.Format(time.RFC3339),
			})
		}
		return nil, out, nil
	})
}
