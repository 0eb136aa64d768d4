package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Exclusive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	release, err := m.Acquire(ctx, "doc:1", time.Minute)
	require.NoError(t, err)

	_, err = m.Acquire(ctx, "doc:1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := m.Acquire(ctx, "doc:2", time.Minute)
	require.NoError(t, err)
	other()

	release()
	again, err := m.Acquire(ctx, "doc:1", time.Minute)
	require.NoError(t, err)
	again()
}

func TestMemory_ExpiredLeaseIsNotReleasedByOldHolder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	stale, err := m.Acquire(ctx, "doc:1", 20*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	fresh, err := m.Acquire(ctx, "doc:1", time.Minute)
	require.NoError(t, err)

	stale()
	_, err = m.Acquire(ctx, "doc:1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)
	fresh()
}

func TestMemory_ConcurrentAcquire(t *testing.T) {
	m := NewMemory()
	var won atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Acquire(context.Background(), "doc:7", time.Minute); err == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), won.Load())
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().Acquire(ctx, "doc:1", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedis_ConnectionErrorPropagates(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	_, err := NewRedis(rdb).Acquire(context.Background(), "doc:1", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "::not a url")
	assert.Error(t, err)
}
