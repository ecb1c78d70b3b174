// Package watcher keeps the latest watch history, subscriptions and
// recommendations fresh by running fetch cycles against YouTube.
package watcher

import (
	"slices"
	"sync"
	"time"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

// Snapshot is an immutable copy of the fetch result. Nil pointers mean absent.
type Snapshot struct {
	History         *youtube.VideoRecord          `json:"history,omitempty"`
	Subscriptions   *youtube.SubscriptionSnapshot `json:"subscriptions,omitempty"`
	Recommendations []youtube.VideoRecord         `json:"recommendations"`
	CookiesValid    bool                          `json:"cookies_valid"`
	UpdatedAt       time.Time                     `json:"updated_at,omitzero"`
}

// HistoryTitle returns the title of the current history record, or "".
func (s Snapshot) HistoryTitle() string {
	if s.History == nil {
		return ""
	}
	return s.History.Title
}

// update carries the outcome of one cycle. A *Fetched flag is set when the page
// was fetched and decoded; only then does the matching value replace the stored one.
type update struct {
	historyFetched bool
	history        *youtube.VideoRecord

	subscriptionsFetched bool
	subscriptions        *youtube.SubscriptionSnapshot

	recommendationsFetched bool
	recommendations        []youtube.VideoRecord

	at time.Time
}

func (u update) anyPresent() bool {
	return u.history != nil || u.subscriptions != nil || len(u.recommendations) > 0
}

// State is the process-wide fetch result. Written only by the cycle in flight.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

func (s *State) apply(u update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.historyFetched {
		s.snap.History = u.history
	}
	if u.subscriptionsFetched {
		s.snap.Subscriptions = u.subscriptions
	}
	if u.recommendationsFetched {
		s.snap.Recommendations = u.recommendations
	}
	if u.anyPresent() {
		s.snap.CookiesValid = true
	}
	s.snap.UpdatedAt = u.at
}

// invalidate marks the credentials unusable. Stored data is kept.
func (s *State) invalidate(at time.Time) {
	s.mu.Lock()
	s.snap.CookiesValid = false
	s.snap.UpdatedAt = at
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Snapshot{
		CookiesValid:    s.snap.CookiesValid,
		UpdatedAt:       s.snap.UpdatedAt,
		Recommendations: slices.Clone(s.snap.Recommendations),
	}
	if s.snap.History != nil {
		h := *s.snap.History
		out.History = &h
	}
	if s.snap.Subscriptions != nil {
		subs := youtube.NewSubscriptionSnapshot(slices.Clone(s.snap.Subscriptions.Channels))
		out.Subscriptions = &subs
	}
	if out.Recommendations == nil {
		out.Recommendations = []youtube.VideoRecord{}
	}
	return out
}
