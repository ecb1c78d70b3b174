package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Cycles              atomic.Int64
	CyclesCoalesced     atomic.Int64
	CycleFailures       atomic.Int64
	HistoryFetches      atomic.Int64
	SubscriptionFetches atomic.Int64
	RecommendedFetches  atomic.Int64
	RecommendedSkipped  atomic.Int64
	FetchErrors         atomic.Int64
	DecodeErrors        atomic.Int64
	ThumbnailProbes     atomic.Int64
	ThumbnailFallbacks  atomic.Int64
	PlayerEvents        atomic.Int64
	TriggerRefreshes    atomic.Int64
	StatePublishes      atomic.Int64
	WatchLogAppends     atomic.Int64
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"cycles":               metrics.Cycles.Load(),
		"cycles_coalesced":     metrics.CyclesCoalesced.Load(),
		"cycle_failures":       metrics.CycleFailures.Load(),
		"history_fetches":      metrics.HistoryFetches.Load(),
		"subscription_fetches": metrics.SubscriptionFetches.Load(),
		"recommended_fetches":  metrics.RecommendedFetches.Load(),
		"recommended_skipped":  metrics.RecommendedSkipped.Load(),
		"fetch_errors":         metrics.FetchErrors.Load(),
		"decode_errors":        metrics.DecodeErrors.Load(),
		"thumbnail_probes":     metrics.ThumbnailProbes.Load(),
		"thumbnail_fallbacks":  metrics.ThumbnailFallbacks.Load(),
		"player_events":        metrics.PlayerEvents.Load(),
		"trigger_refreshes":    metrics.TriggerRefreshes.Load(),
		"state_publishes":      metrics.StatePublishes.Load(),
		"watchlog_appends":     metrics.WatchLogAppends.Load(),
	}
}

// FormatMetrics renders the counters one per line for the metrics endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"cycles", "cycles_coalesced", "cycle_failures",
		"history_fetches", "subscription_fetches",
		"recommended_fetches", "recommended_skipped",
		"fetch_errors", "decode_errors",
		"thumbnail_probes", "thumbnail_fallbacks",
		"player_events", "trigger_refreshes",
		"state_publishes", "watchlog_appends",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the watcher.
func IncrCycle()              { metrics.Cycles.Add(1) }
func IncrCycleCoalesced()     { metrics.CyclesCoalesced.Add(1) }
func IncrCycleFailure()       { metrics.CycleFailures.Add(1) }
func IncrHistoryFetch()       { metrics.HistoryFetches.Add(1) }
func IncrSubscriptionFetch()  { metrics.SubscriptionFetches.Add(1) }
func IncrRecommendedFetch()   { metrics.RecommendedFetches.Add(1) }
func IncrRecommendedSkipped() { metrics.RecommendedSkipped.Add(1) }
func IncrFetchError()         { metrics.FetchErrors.Add(1) }
func IncrDecodeError()        { metrics.DecodeErrors.Add(1) }
func IncrPlayerEvent()        { metrics.PlayerEvents.Add(1) }
func IncrTriggerRefresh()     { metrics.TriggerRefreshes.Add(1) }
func IncrWatchLogAppend()     { metrics.WatchLogAppends.Add(1) }

// Incrementors for the thumbnail resolver.
func IncrThumbnailProbe()    { metrics.ThumbnailProbes.Add(1) }
func IncrThumbnailFallback() { metrics.ThumbnailFallbacks.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
