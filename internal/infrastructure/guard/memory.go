package guard

import (
	"context"
	"sync"

	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// MemoryGuard is an in-process per-order in-flight flag.
type MemoryGuard struct {
	inFlight sync.Map
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{}
}

func (g *MemoryGuard) Acquire(ctx context.Context, orderID string) (interfaces.ReleaseFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	token := new(byte)
	if _, held := g.inFlight.LoadOrStore(orderID, token); held {
		return nil, errInFlight(orderID)
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.inFlight.CompareAndDelete(orderID, token) })
	}, nil
}

func (g *MemoryGuard) InFlight(orderID string) bool {
	_, held := g.inFlight.Load(orderID)
	return held
}

func errInFlight(orderID string) error {
	return pkgerrors.Newf(pkgerrors.CodeConcurrentApplication,
		"a previous scheme application on order %s is still in progress", orderID)
}
