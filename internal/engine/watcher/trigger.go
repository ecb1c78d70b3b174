package watcher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_ytwatch/internal/engine"
)

// StatePlaying is the media-player state that can trigger a refresh.
const StatePlaying = "playing"

// KnownAppIDs identify YouTube clients on media players (Apple TV, Android TV,
// Google TV, YouTube Music, YouTube Kids).
var KnownAppIDs = []string{
	"com.google.ios.youtube",
	"com.google.android.youtube.tv",
	"com.google.android.youtube.tvunplugged",
	"com.google.android.youtube",
	"com.google.android.apps.youtube.music",
	"com.google.android.youtube.googletv",
	"YouTube",
	"youtube",
	"com.google.android.youtube.tvkids",
}

// Detection methods reported by DetectYouTube.
const (
	MethodAppID     = "app_id"
	MethodAppName   = "app_name"
	MethodSource    = "source"
	MethodContentID = "media_content_id"
	MethodTitle     = "media_title"
)

// PlayerEvent is a media-player state change reported by the host.
type PlayerEvent struct {
	EntityID       string `json:"entity_id" jsonschema:"Media player entity id (e.g. media_player.living_room_tv)"`
	OldState       string `json:"old_state,omitempty" jsonschema:"Previous player state"`
	NewState       string `json:"new_state" jsonschema:"New player state (playing, paused, idle, ...)"`
	AppID          string `json:"app_id,omitempty" jsonschema:"Application id reported by the player"`
	AppName        string `json:"app_name,omitempty" jsonschema:"Application name reported by the player"`
	MediaTitle     string `json:"media_title,omitempty" jsonschema:"Title of the media now playing"`
	Source         string `json:"source,omitempty" jsonschema:"Input source of the player"`
	MediaContentID string `json:"media_content_id,omitempty" jsonschema:"Content id or URL of the media"`
}

// Outcome says what Handle did with an event.
type Outcome string

const (
	OutcomeOtherEntity    Outcome = "other_entity"
	OutcomeNotPlaying     Outcome = "not_playing_transition"
	OutcomeTrackAll       Outcome = "track_all"
	OutcomeNotYouTube     Outcome = "not_youtube"
	OutcomeDuplicateTitle Outcome = "duplicate_title"
	OutcomeRateLimited    Outcome = "rate_limited"
	OutcomeRefresh        Outcome = "refresh"
)

// Refresher is the part of Watcher the trigger drives.
type Refresher interface {
	Refresh(ctx context.Context, reason string) error
	Snapshot() Snapshot
}

// TriggerOptions configures a Trigger.
type TriggerOptions struct {
	EntityID    string // "" accepts every player
	TrackAll    bool
	ExtraAppIDs []string
	MinInterval time.Duration // 0 = unlimited
}

// Trigger turns YouTube playback starts into immediate refreshes.
type Trigger struct {
	r        Refresher
	entityID string
	trackAll bool
	appIDs   map[string]bool
	limiter  *rate.Limiter
}

// NewTrigger returns a trigger that refreshes r.
func NewTrigger(r Refresher, opts TriggerOptions) *Trigger {
	ids := make(map[string]bool, len(KnownAppIDs)+len(opts.ExtraAppIDs))
	for _, id := range KnownAppIDs {
		ids[id] = true
	}
	for _, id := range opts.ExtraAppIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = true
		}
	}
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	return &Trigger{
		r:        r,
		entityID: opts.EntityID,
		trackAll: opts.TrackAll,
		appIDs:   ids,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// DetectYouTube reports whether ev comes from a YouTube client and which field
// gave it away. Fields are checked in a fixed order.
func (t *Trigger) DetectYouTube(ev PlayerEvent) (string, bool) {
	switch {
	case ev.AppID != "" && t.appIDs[ev.AppID]:
		return MethodAppID, true
	case engine.ContainsFold(ev.AppName, "youtube"):
		return MethodAppName, true
	case engine.ContainsFold(ev.Source, "youtube"):
		return MethodSource, true
	case engine.ContainsFold(ev.MediaContentID, "youtube"):
		return MethodContentID, true
	case engine.ContainsFold(ev.MediaTitle, "youtube"), engine.ContainsFold(ev.MediaTitle, "yt:"):
		return MethodTitle, true
	}
	return "", false
}

// Handle decides whether ev warrants a refresh and, if so, starts one in the
// background. The refresh outlives ctx.
func (t *Trigger) Handle(ctx context.Context, ev PlayerEvent) Outcome {
	engine.IncrPlayerEvent()

	if t.entityID != "" && ev.EntityID != t.entityID {
		return OutcomeOtherEntity
	}
	if ev.NewState != StatePlaying || ev.OldState == StatePlaying {
		return OutcomeNotPlaying
	}
	if t.trackAll {
		return OutcomeTrackAll
	}
	method, ok := t.DetectYouTube(ev)
	if !ok {
		return OutcomeNotYouTube
	}
	if ev.MediaTitle == "" || ev.MediaTitle == t.r.Snapshot().HistoryTitle() {
		slog.Debug("trigger: title unchanged", slog.String("entity", ev.EntityID), slog.String("method", method))
		return OutcomeDuplicateTitle
	}
	if !t.limiter.Allow() {
		return OutcomeRateLimited
	}

	engine.IncrTriggerRefresh()
	slog.Info("trigger: youtube playback detected",
		slog.String("entity", ev.EntityID),
		slog.String("method", method),
		slog.String("title", ev.MediaTitle))

	bg := context.WithoutCancel(ctx)
	go func() {
		if err := t.r.Refresh(bg, "player:"+method); err != nil && !errors.Is(err, ErrCycleInFlight) {
			slog.Warn("trigger: refresh failed", slog.Any("error", err))
		}
	}()
	return OutcomeRefresh
}
