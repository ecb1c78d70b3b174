// Package watchlog records each distinct video that shows up at the top of the
// watch history.
package watchlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

// Recent limits.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ErrNoDSN is returned by Open when no DSN is configured.
var ErrNoDSN = errors.New("watchlog: empty DSN")

// Entry is one logged video.
type Entry struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	Channel   string    `json:"channel"`
	Duration  string    `json:"duration"`
	URL       string    `json:"url"`
	WatchedAt time.Time `json:"watched_at"`
}

// NewEntry builds an entry for a located history record.
func NewEntry(rec youtube.VideoRecord, at time.Time) Entry {
	return Entry{
		VideoID:   rec.VideoID,
		Title:     rec.Title,
		Channel:   rec.Channel,
		Duration:  rec.Duration,
		URL:       rec.WatchURL,
		WatchedAt: at.UTC(),
	}
}

// Store persists entries. Recent returns the newest first.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Open picks the backend from dsn: postgres:// and postgresql:// URLs use
// PostgreSQL, anything else is a SQLite file path.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return nil, ErrNoDSN
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err := openPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := openSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
