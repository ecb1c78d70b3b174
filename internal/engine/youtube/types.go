package youtube

// NotAvailable is stored in place of any string field that could not be resolved.
// Consumers never branch on missing keys.
const NotAvailable = "N/A"

// Fixed duration markers.
const (
	DurationLive   = "LIVE"
	DurationShorts = "Shorts"
)

// ShortsChannel is the channel (and default title) of every Shorts record.
const ShortsChannel = "YouTube Shorts"

const (
	watchURLPrefix  = "https://www.youtube.com/watch?v="
	shortsURLPrefix = "https://www.youtube.com/shorts/"
)

// VideoRecord is the canonical shape of a watched or recommended video.
type VideoRecord struct {
	Channel      string `json:"channel"`
	Title        string `json:"title"`
	VideoID      string `json:"video_id"`
	Duration     string `json:"duration"`
	ThumbnailURL string `json:"thumbnail"`
	WatchURL     string `json:"url"`
}

// ChannelRecord is one subscribed channel. Name is stored as read from the page.
type ChannelRecord struct {
	Name string `json:"channel_name"`
}

// SubscriptionSnapshot lists subscribed channels in page order.
type SubscriptionSnapshot struct {
	TotalCount int             `json:"total_count"`
	Channels   []ChannelRecord `json:"channels"`
}

// NewSubscriptionSnapshot keeps TotalCount equal to len(channels).
func NewSubscriptionSnapshot(channels []ChannelRecord) SubscriptionSnapshot {
	if channels == nil {
		channels = []ChannelRecord{}
	}
	return SubscriptionSnapshot{TotalCount: len(channels), Channels: channels}
}

// WatchURL returns the desktop watch URL for a video id.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// ShortsURL returns the Shorts player URL for a video id.
func ShortsURL(videoID string) string {
	return shortsURLPrefix + videoID
}

// newVideoRecord returns a record for videoID with every other field unresolved.
func newVideoRecord(videoID string) VideoRecord {
	rec := VideoRecord{
		Channel:      NotAvailable,
		Title:        NotAvailable,
		VideoID:      videoID,
		Duration:     NotAvailable,
		ThumbnailURL: NotAvailable,
		WatchURL:     NotAvailable,
	}
	if videoID != NotAvailable {
		rec.WatchURL = WatchURL(videoID)
	}
	return rec
}
