// Package toolutil shapes watcher snapshots into the attribute sets the host
// platform reads from the MCP tools.
package toolutil

import (
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go_ytwatch/internal/engine"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/watcher"
	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

// NoRecentVideos is the watching state when no history record is known.
const NoRecentVideos = "No Recent Videos"

const (
	channelNameLimit  = 30
	channelNameSuffix = "..."
)

// WatchingOutput describes the most recently watched video.
// Attribute pointers are nil (JSON null) until a record is known.
type WatchingOutput struct {
	State         string  `json:"state"`
	Available     bool    `json:"available"`
	EntityPicture string  `json:"entity_picture,omitempty"`
	Channel       *string `json:"channel"`
	Title         *string `json:"title"`
	VideoID       *string `json:"video_id"`
	Thumbnail     *string `json:"thumbnail"`
	Duration      *string `json:"duration"`
	URL           *string `json:"url"`
}

// SubscriptionsOutput lists subscribed channel names for display.
type SubscriptionsOutput struct {
	State        int      `json:"state"`
	Unit         string   `json:"unit_of_measurement"`
	Available    bool     `json:"available"`
	TotalCount   int      `json:"total_count"`
	ChannelNames []string `json:"channel_names"`
}

// RankedVideo is a recommendation with its 1-based position.
type RankedVideo struct {
	Position  int    `json:"position"`
	Channel   string `json:"channel"`
	Title     string `json:"title"`
	VideoID   string `json:"video_id"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	URL       string `json:"url"`
}

// RecommendedOutput lists up to three recommended videos.
type RecommendedOutput struct {
	State         int           `json:"state"`
	Unit          string        `json:"unit_of_measurement"`
	Available     bool          `json:"available"`
	EntityPicture string        `json:"entity_picture,omitempty"`
	VideoCount    int           `json:"video_count"`
	Videos        []RankedVideo `json:"videos"`
}

// CookieStatusOutput is the on/off credential indicator.
type CookieStatusOutput struct {
	IsOn                bool `json:"is_on"`
	HasHistoryData      bool `json:"has_history_data"`
	HasSubscriptionData bool `json:"has_subscription_data"`
	CookiesValidFlag    bool `json:"cookies_valid_flag"`
}

// Watching builds the watching attributes from a snapshot.
func Watching(s watcher.Snapshot) WatchingOutput {
	out := WatchingOutput{State: NoRecentVideos, Available: s.CookiesValid}
	h := s.History
	if h == nil {
		return out
	}
	if h.Title != "" && h.Title != youtube.NotAvailable {
		out.State = h.Title
	}
	out.EntityPicture = h.ThumbnailURL
	out.Channel = &h.Channel
	out.Title = &h.Title
	out.VideoID = &h.VideoID
	out.Thumbnail = &h.ThumbnailURL
	out.Duration = &h.Duration
	out.URL = &h.WatchURL
	return out
}

// Subscriptions builds the subscription attributes from a snapshot.
func Subscriptions(s watcher.Snapshot) SubscriptionsOutput {
	out := SubscriptionsOutput{Unit: "channels", Available: s.CookiesValid, ChannelNames: []string{}}
	if s.Subscriptions == nil {
		return out
	}
	out.State = s.Subscriptions.TotalCount
	out.TotalCount = s.Subscriptions.TotalCount
	out.ChannelNames = DisplayChannelNames(s.Subscriptions.Channels)
	return out
}

// Recommended builds the recommendation attributes from a snapshot.
func Recommended(s watcher.Snapshot) RecommendedOutput {
	recs := s.Recommendations
	out := RecommendedOutput{
		State:      len(recs),
		Unit:       "videos",
		Available:  s.CookiesValid,
		VideoCount: len(recs),
		Videos:     make([]RankedVideo, 0, min(len(recs), youtube.MaxRecommendations)),
	}
	for i, rec := range recs {
		if i >= youtube.MaxRecommendations {
			break
		}
		out.Videos = append(out.Videos, RankedVideo{
			Position:  i + 1,
			Channel:   rec.Channel,
			Title:     rec.Title,
			VideoID:   rec.VideoID,
			Thumbnail: rec.ThumbnailURL,
			Duration:  rec.Duration,
			URL:       rec.WatchURL,
		})
	}
	if len(recs) > 0 {
		out.EntityPicture = recs[0].ThumbnailURL
	}
	return out
}

// CookieStatus reports on when any data is held or the credentials are valid.
func CookieStatus(s watcher.Snapshot) CookieStatusOutput {
	out := CookieStatusOutput{
		HasHistoryData:      s.History != nil,
		HasSubscriptionData: s.Subscriptions != nil,
		CookiesValidFlag:    s.CookiesValid,
	}
	out.IsOn = out.HasHistoryData || out.HasSubscriptionData || out.CookiesValidFlag
	return out
}

// DisplayChannelNames renders channel names for a comma-delimited display:
// commas become periods, whitespace is trimmed, and names over 30 runes are cut
// with "...".
func DisplayChannelNames(channels []youtube.ChannelRecord) []string {
	names := make([]string, 0, len(channels))
	for _, c := range channels {
		name := strings.TrimSpace(strings.ReplaceAll(c.Name, ",", "."))
		if utf8.RuneCountInString(name) > channelNameLimit {
			name = engine.TruncateRunes(name, channelNameLimit, "") + channelNameSuffix
		}
		names = append(names, name)
	}
	return names
}
