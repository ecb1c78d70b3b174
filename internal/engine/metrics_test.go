package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatMetrics(t *testing.T) {
	before := GetMetrics()["cycles"]
	IncrCycle()
	IncrThumbnailProbe()

	if got := GetMetrics()["cycles"]; got != before+1 {
		t.Errorf("cycles = %d, want %d", got, before+1)
	}
	out := FormatMetrics()
	for _, key := range []string{"cycles ", "thumbnail_probes ", "watchlog_appends "} {
		if !strings.Contains(out, key) {
			t.Errorf("FormatMetrics() missing %q", key)
		}
	}
	if lines := strings.Count(out, "\n"); lines != len(GetMetrics()) {
		t.Errorf("FormatMetrics() has %d lines, want %d", lines, len(GetMetrics()))
	}
}

func TestTrackOperationPassesError(t *testing.T) {
	want := errors.New("boom")
	err := TrackOperation(context.Background(), "op", time.Hour, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("TrackOperation() = %v, want %v", err, want)
	}
}
