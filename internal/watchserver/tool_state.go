package watchserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytwatch/internal/toolutil"
)

func registerWatching(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_watching",
		Description: "Most recently watched YouTube video from the account's watch history: channel, title, video_id, thumbnail, duration (clock text, LIVE or Shorts) and url. State is the title, or \"No Recent Videos\".",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, toolutil.WatchingOutput, error) {
		return nil, toolutil.Watching(d.Watcher.Snapshot()), nil
	})
}

func registerSubscriptions(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_subscriptions",
		Description: "Subscribed YouTube channels: total_count and display channel_names (commas replaced by periods, long names cut at 30 characters).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, toolutil.SubscriptionsOutput, error) {
		return nil, toolutil.Subscriptions(d.Watcher.Snapshot()), nil
	})
}

func registerRecommended(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_recommended",
		Description: "Up to three videos from the YouTube home feed in page order, each with position, channel, title, video_id, thumbnail, duration and url.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, toolutil.RecommendedOutput, error) {
		return nil, toolutil.Recommended(d.Watcher.Snapshot()), nil
	})
}

func registerCookieStatus(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_cookies_status",
		Description: "Whether the YouTube cookie file is usable: is_on plus has_history_data, has_subscription_data and cookies_valid_flag.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, toolutil.CookieStatusOutput, error) {
		return nil, toolutil.CookieStatus(d.Watcher.Snapshot()), nil
	})
}
