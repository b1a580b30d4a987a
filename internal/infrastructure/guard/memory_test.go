package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuardRejectsSecondAcquire(t *testing.T) {
	t.Parallel()

	g := NewMemoryGuard()
	release, err := g.Acquire(context.Background(), "SO-1")
	require.NoError(t, err)
	assert.True(t, g.InFlight("SO-1"))

	_, err = g.Acquire(context.Background(), "SO-1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConcurrentApplication))

	other, err := g.Acquire(context.Background(), "SO-2")
	require.NoError(t, err)
	other()

	release()
	release()
	assert.False(t, g.InFlight("SO-1"))

	again, err := g.Acquire(context.Background(), "SO-1")
	require.NoError(t, err)
	again()
}

func TestMemoryGuardStaleReleaseKeepsNewHolder(t *testing.T) {
	t.Parallel()

	g := NewMemoryGuard()
	first, err := g.Acquire(context.Background(), "SO-1")
	require.NoError(t, err)
	first()

	second, err := g.Acquire(context.Background(), "SO-1")
	require.NoError(t, err)
	defer second()

	first()
	assert.True(t, g.InFlight("SO-1"))
}

func TestMemoryGuardSingleWinner(t *testing.T) {
	t.Parallel()

	g := NewMemoryGuard()
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := g.Acquire(context.Background(), "SO-1"); err == nil {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
