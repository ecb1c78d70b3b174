package watchlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytwatch/internal/engine/youtube"
)

func openTemp(t *testing.T) Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "watchlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestSQLiteAppendRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"aaa", "bbb", "ccc"} {
		rec := youtube.VideoRecord{
			Channel: "Chan", Title: "Video " + id, VideoID: id,
			Duration: "1:00", WatchURL: youtube.WatchURL(id),
		}
		require.NoError(t, s.Append(ctx, NewEntry(rec, base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ccc", got[0].VideoID)
	assert.Equal(t, "bbb", got[1].VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=ccc", got[0].URL)
	assert.True(t, got[0].WatchedAt.Equal(base.Add(2*time.Minute)))
}

func TestSQLiteRecentEmpty(t *testing.T) {
	got, err := openTemp(t).Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{7, 7},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
