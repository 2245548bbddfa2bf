package cache

import (
	"bbm-backend/internal/chrono"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFakeTime() *chrono.FakeTime {
	return chrono.NewFakeTime(time.Date(2026, 1, 15, 8, 0, 0, 0, chrono.WIB()))
}

func TestTTL(t *testing.T) {
	clock := newFakeTime()
	c := New(clock)

	c.Set("provinces", []string{"ACEH"}, time.Hour)

	clock.Advance(59 * time.Minute)
	value, ok := c.Get("provinces")
	require.True(t, ok)
	require.Equal(t, []string{"ACEH"}, value)

	clock.Advance(time.Minute)
	_, ok = c.Get("provinces")
	require.False(t, ok)

	stats := c.Stats()
	require.EqualValues(t, 1, stats.Hits)
	require.EqualValues(t, 1, stats.Misses)
	require.Equal(t, 0, stats.Keys)
	require.EqualValues(t, 1, stats.Evictions)
}

func TestIndependentExpirations(t *testing.T) {
	clock := newFakeTime()
	c := New(clock)

	c.Set(KeySnapshot, "snapshot", time.Hour)
	c.Set(KeyProvinces, "provinces", 24*time.Hour)
	c.Set(RegenciesKey("31"), "regencies", 24*time.Hour)
	c.Set("forever", "value", 0)

	clock.Advance(2 * time.Hour)

	_, ok := c.Get(KeySnapshot)
	require.False(t, ok)
	_, ok = c.Get(KeyProvinces)
	require.True(t, ok)
	_, ok = c.Get(RegenciesKey("31"))
	require.True(t, ok)

	clock.Advance(365 * 24 * time.Hour)
	_, ok = c.Get("forever")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"forever"}, c.Keys())
}

func TestSetReplacesAndResetsTTL(t *testing.T) {
	clock := newFakeTime()
	c := New(clock)

	c.Set("k", 1, time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("k", 2, time.Minute)
	clock.Advance(50 * time.Second)

	value, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 2, value)
}

func TestDelete(t *testing.T) {
	c := New(newFakeTime())

	c.Set(KeySnapshot, "a", time.Hour)
	c.Set(KeyProvinces, "b", time.Hour)

	require.Equal(t, 1, c.Delete(KeySnapshot, "missing"))
	_, ok := c.Get(KeySnapshot)
	require.False(t, ok)
	_, ok = c.Get(KeyProvinces)
	require.True(t, ok)

	require.Equal(t, 1, c.Delete(KeyProvinces))
	require.Empty(t, c.Keys())
}

func TestStatsKeySize(t *testing.T) {
	c := New(newFakeTime())
	c.Set("ab", 1, 0)
	c.Set("cde", 2, 0)

	stats := c.Stats()
	require.Equal(t, 2, stats.Keys)
	require.Equal(t, 5, stats.KeySize)
	require.EqualValues(t, 2, stats.Sets)
}

func TestGetAs(t *testing.T) {
	c := New(newFakeTime())
	c.Set("n", 42, 0)

	n, ok, err := GetAs[int](c, "n")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 42, n)

	_, ok, err = GetAs[string](c, "n")
	require.ErrorIs(t, err, ErrUnexpectedType)
	require.False(t, ok)

	_, ok, err = GetAs[string](c, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	clock := newFakeTime()
	c := New(clock)

	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("regencies:%d", i%4)
			for j := 0; j < 100; j++ {
				c.Set(key, j, time.Second)
				c.Get(key)
				if j%10 == 0 {
					clock.Advance(time.Millisecond)
				}
			}
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Stats().Keys, 4)
}
