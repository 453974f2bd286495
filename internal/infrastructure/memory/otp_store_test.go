package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-otp-auth/pkg/clock"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestOTPStorePutGetConsume(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore(clock.NewManual(t0))

	_, found, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "a@x.com", "123456", 300*time.Second))
	code, found, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "123456", code)

	consumed, err := s.Consume(ctx, "a@x.com", "654321")
	require.NoError(t, err)
	assert.False(t, consumed)
	_, found, _ = s.Get(ctx, "a@x.com")
	assert.True(t, found)

	consumed, err = s.Consume(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.True(t, consumed)
	_, found, _ = s.Get(ctx, "a@x.com")
	assert.False(t, found)

	consumed, err = s.Consume(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestOTPStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore(clock.NewManual(t0))

	require.NoError(t, s.Put(ctx, "a@x.com", "123456", 300*time.Second))
	require.NoError(t, s.Delete(ctx, "a@x.com"))
	_, found, _ := s.Get(ctx, "a@x.com")
	assert.False(t, found)

	// deleting an absent key is a no-op
	assert.NoError(t, s.Delete(ctx, "a@x.com"))
}

func TestOTPStoreConsumeExpired(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	s := NewOTPStore(clk)

	require.NoError(t, s.Put(ctx, "a@x.com", "123456", 300*time.Second))
	clk.Advance(300 * time.Second)

	consumed, err := s.Consume(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestOTPStoreConsumeOnce(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore(nil)
	require.NoError(t, s.Put(ctx, "a@x.com", "123456", time.Minute))

	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Consume(ctx, "a@x.com", "123456"); ok {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), won.Load())
}

func TestOTPStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore(clock.NewManual(t0))

	require.NoError(t, s.Put(ctx, "a@x.com", "111111", 300*time.Second))
	require.NoError(t, s.Put(ctx, "a@x.com", "222222", 300*time.Second))

	code, found, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "222222", code)
	assert.Equal(t, 1, s.Len())
}

func TestOTPStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	s := NewOTPStore(clk)

	require.NoError(t, s.Put(ctx, "a@x.com", "123456", 300*time.Second))

	clk.Advance(299 * time.Second)
	_, found, _ := s.Get(ctx, "a@x.com")
	assert.True(t, found)

	clk.Advance(time.Second)
	_, found, _ = s.Get(ctx, "a@x.com")
	assert.False(t, found, "entry must be absent at exactly T+ttl")
	assert.Equal(t, 0, s.Len())
}

func TestOTPStoreOverwriteResetsTTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	s := NewOTPStore(clk)

	require.NoError(t, s.Put(ctx, "a@x.com", "111111", 300*time.Second))
	clk.Advance(200 * time.Second)
	require.NoError(t, s.Put(ctx, "a@x.com", "222222", 300*time.Second))
	clk.Advance(200 * time.Second)

	code, found, _ := s.Get(ctx, "a@x.com")
	assert.True(t, found)
	assert.Equal(t, "222222", code)
}

func TestOTPStoreSweep(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	s := NewOTPStore(clk)

	require.NoError(t, s.Put(ctx, "a@x.com", "111111", time.Minute))
	require.NoError(t, s.Put(ctx, "b@x.com", "222222", 10*time.Minute))
	clk.Advance(2 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestOTPStoreRunStopsOnCancel(t *testing.T) {
	s := NewOTPStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestOTPStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("u%d@x.com", i%5)
			_ = s.Put(ctx, email, fmt.Sprintf("%06d", i), time.Minute)
			_, _, _ = s.Get(ctx, email)
			if i%7 == 0 {
				_, _ = s.Consume(ctx, email, fmt.Sprintf("%06d", i))
			}
			if i%11 == 0 {
				_ = s.Delete(ctx, email)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Len(), 5)
}
