package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toolmesh/dagcore/internal/task"
)

func TestCache_LRUEviction(t *testing.T) {
	c := New(Config{Enabled: true, MaxEntries: 3, TTLSeconds: 3600}, nil)
	now := time.Unix(0, 0)

	c.Set("k1", task.TaskResult{TaskID: "t1", Status: task.StatusSuccess}, nil, now)
	c.Set("k2", task.TaskResult{TaskID: "t2", Status: task.StatusSuccess}, nil, now)
	c.Set("k3", task.TaskResult{TaskID: "t3", Status: task.StatusSuccess}, nil, now)
	c.Set("k4", task.TaskResult{TaskID: "t4", Status: task.StatusSuccess}, nil, now)

	_, ok := c.Get("k1", now)
	require.False(t, ok, "expected k1 to be evicted")
	_, ok = c.Get("k3", now)
	require.True(t, ok, "expected k3 to still be a hit")
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(Config{Enabled: true, MaxEntries: 10, TTLSeconds: 1}, nil)
	now := time.Unix(0, 0)
	c.Set("k1", task.TaskResult{TaskID: "t1", Status: task.StatusSuccess}, nil, now)

	_, ok := c.Get("k1", now.Add(500*time.Millisecond))
	require.True(t, ok, "expected hit within TTL")
	_, ok = c.Get("k1", now.Add(2*time.Second))
	require.False(t, ok, "expected miss after TTL expiry")
}

func TestCache_DisabledIsNoOp(t *testing.T) {
	c := New(Config{Enabled: false, MaxEntries: 10, TTLSeconds: 3600}, nil)
	now := time.Unix(0, 0)
	c.Set("k1", task.TaskResult{TaskID: "t1", Status: task.StatusSuccess}, nil, now)

	_, ok := c.Get("k1", now)
	require.False(t, ok, "expected disabled cache to always miss")
	require.Zero(t, c.Stats().CurrentEntries, "expected disabled cache to never grow")
}

func TestCache_StatsTrackSavedTime(t *testing.T) {
	c := New(Config{Enabled: true, MaxEntries: 10, TTLSeconds: 3600}, nil)
	now := time.Unix(0, 0)
	c.Set("k1", task.TaskResult{TaskID: "t1", Status: task.StatusSuccess, ExecutionTimeMs: 500}, nil, now)
	c.Get("k1", now)
	c.Get("k1", now)

	stats := c.Stats()
	require.Equal(t, int64(2), stats.Hits)
	require.Equal(t, int64(1000), stats.TotalSavedMs)
}
