package watcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

type fakeRefresher struct {
	title string
	calls chan string
}

func newFakeRefresher(title string) *fakeRefresher {
	return &fakeRefresher{title: title, calls: make(chan string, 8)}
}

func (f *fakeRefresher) Refresh(_ context.Context, reason string) error {
	f.calls <- reason
	return nil
}

func (f *fakeRefresher) Snapshot() Snapshot {
	if f.title == "" {
		return Snapshot{}
	}
	return Snapshot{History: &youtube.VideoRecord{Title: f.title}}
}

func (f *fakeRefresher) waitCall(t *testing.T) string {
	t.Helper()
	select {
	case r := <-f.calls:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("refresh not called")
		return ""
	}
}

func TestDetectYouTube(t *testing.T) {
	tr := NewTrigger(newFakeRefresher(""), TriggerOptions{ExtraAppIDs: []string{" org.custom.tube "}})

	tests := []struct {
		name   string
		ev     PlayerEvent
		want   string
		wantOK bool
	}{
		{"apple tv app id", PlayerEvent{AppID: "com.google.ios.youtube"}, MethodAppID, true},
		{"extra app id", PlayerEvent{AppID: "org.custom.tube"}, MethodAppID, true},
		{"app name", PlayerEvent{AppID: "com.other", AppName: "YouTube TV"}, MethodAppName, true},
		{"source", PlayerEvent{Source: "Youtube"}, MethodSource, true},
		{"content id", PlayerEvent{MediaContentID: "https://www.youtube.com/watch?v=x"}, MethodContentID, true},
		{"title youtube", PlayerEvent{MediaTitle: "Best of YouTube"}, MethodTitle, true},
		{"title yt prefix", PlayerEvent{MediaTitle: "YT: clip"}, MethodTitle, true},
		{"app id wins over title", PlayerEvent{AppID: "youtube", MediaTitle: "yt: x"}, MethodAppID, true},
		{"netflix", PlayerEvent{AppID: "com.netflix", AppName: "Netflix", MediaTitle: "Show"}, "", false},
		{"empty", PlayerEvent{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.DetectYouTube(tt.ev)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func playing(title string) PlayerEvent {
	return PlayerEvent{
		EntityID:   "media_player.living_room",
		OldState:   "paused",
		NewState:   StatePlaying,
		AppID:      "com.google.android.youtube.tv",
		MediaTitle: title,
	}
}

func TestTriggerHandle(t *testing.T) {
	tests := []struct {
		name   string
		opts   TriggerOptions
		stored string
		ev     PlayerEvent
		want   Outcome
	}{
		{"new title refreshes", TriggerOptions{}, "Old", playing("New"), OutcomeRefresh},
		{"same title suppressed", TriggerOptions{}, "Same", playing("Same"), OutcomeDuplicateTitle},
		{"empty title suppressed", TriggerOptions{}, "Old", playing(""), OutcomeDuplicateTitle},
		{"other entity", TriggerOptions{EntityID: "media_player.bedroom"}, "", playing("New"), OutcomeOtherEntity},
		{"matching entity", TriggerOptions{EntityID: "media_player.living_room"}, "", playing("New"), OutcomeRefresh},
		{"track all", TriggerOptions{TrackAll: true}, "", playing("New"), OutcomeTrackAll},
		{
			"already playing", TriggerOptions{}, "",
			PlayerEvent{OldState: StatePlaying, NewState: StatePlaying, AppID: "youtube", MediaTitle: "New"},
			OutcomeNotPlaying,
		},
		{
			"paused", TriggerOptions{}, "",
			PlayerEvent{OldState: StatePlaying, NewState: "paused", AppID: "youtube", MediaTitle: "New"},
			OutcomeNotPlaying,
		},
		{
			"not youtube", TriggerOptions{}, "",
			PlayerEvent{NewState: StatePlaying, AppID: "com.netflix", MediaTitle: "Show"},
			OutcomeNotYouTube,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRefresher(tt.stored)
			tr := NewTrigger(r, tt.opts)
			assert.Equal(t, tt.want, tr.Handle(context.Background(), tt.ev))
			if tt.want == OutcomeRefresh {
				assert.Equal(t, "player:"+MethodAppID, r.waitCall(t))
			}
		})
	}
}

func TestTriggerRateLimited(t *testing.T) {
	r := newFakeRefresher("Old")
	tr := NewTrigger(r, TriggerOptions{MinInterval: time.Hour})

	assert.Equal(t, OutcomeRefresh, tr.Handle(context.Background(), playing("A")))
	r.waitCall(t)
	assert.Equal(t, OutcomeRateLimited, tr.Handle(context.Background(), playing("B")))
}

func TestTriggerRefreshOutlivesRequest(t *testing.T) {
	r := newFakeRefresher("Old")
	tr := NewTrigger(r, TriggerOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	assert.Equal(t, OutcomeRefresh, tr.Handle(ctx, playing("New")))
	cancel()
	r.waitCall(t)
}
