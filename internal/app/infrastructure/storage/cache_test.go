package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SetGetDelete(t *testing.T) {
	r := NewRegistry[int](4, 0, nil)

	r.Set("a", 1)
	r.Set("b", 2)

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, r.Len())

	v, ok = r.Delete("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("a")
	assert.False(t, ok)

	_, ok = r.Delete("missing")
	assert.False(t, ok)
}

func TestRegistry_Drain(t *testing.T) {
	r := NewRegistry[string](4, 0, nil)
	r.Set("x", "1")
	r.Set("y", "2")

	drained := r.Drain()
	assert.Equal(t, map[string]string{"x": "1", "y": "2"}, drained)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_IdleExpiryCallsOnEvict(t *testing.T) {
	var mu sync.Mutex
	evicted := map[string]int{}

	r := NewRegistry[int](4, 50*time.Millisecond, func(key string, val int) {
		mu.Lock()
		evicted[key] = val
		mu.Unlock()
	})
	assert.Equal(t, 50*time.Millisecond, r.IdleTTL())

	r.Set("idle", 7)

	require.Eventually(t, func() bool {
		r.CleanUp()
		mu.Lock()
		defer mu.Unlock()
		return evicted["idle"] == 7
	}, 3*time.Second, 20*time.Millisecond)

	_, ok := r.Get("idle")
	assert.False(t, ok)
}

func TestRegistry_DeleteDoesNotCallOnEvict(t *testing.T) {
	called := make(chan string, 1)
	r := NewRegistry[int](4, time.Hour, func(key string, _ int) { called <- key })

	r.Set("a", 1)
	r.Delete("a")
	r.CleanUp()

	select {
	case key := <-called:
		t.Fatalf("onEvict called for %s", key)
	case <-time.After(100 * time.Millisecond):
	}
}
