package applyscheme

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/domain/engine"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
	"github.com/Victor-armando18/pricing-scheme/pkg/metrics"
)

const (
	outcomeCommitted = "committed"
	outcomeSkipped   = "skipped"
)

// Differ reports the merge patch between two versions of an order.
type Differ interface {
	Delta(before, after domain.Order) (json.RawMessage, error)
}

// UseCase runs one scheme application attempt end to end: guard, validate
// against the stored order, mutate, persist.
type UseCase struct {
	Catalog    interfaces.RuleCatalogSource
	Conditions interfaces.ConditionEvaluator
	Orders     interfaces.OrderRepository
	Guard      interfaces.ApplicationGuard
	Applier    *engine.Applier
	Differ     Differ
	Logger     *logger.Logger
	Metrics    *metrics.ApplyMetrics
}

func (u *UseCase) Run(ctx context.Context, orderID string, sel domain.Selection) (res *engine.ApplyResult, err error) {
	start := time.Now()
	logg := u.logger()
	ctx = logg.WithSchemeID(logg.WithOrderID(ctx, orderID), sel.SchemeID)

	defer func() {
		outcome := outcomeCommitted
		switch {
		case err != nil:
			outcome = strings.ToLower(string(pkgerrors.CodeOf(err)))
			if pkgerrors.Recoverable(pkgerrors.CodeOf(err)) {
				logg.Warn(logg.WithField(ctx, "code", pkgerrors.CodeOf(err)), "scheme application rejected")
			} else {
				logg.Error(ctx, "scheme application failed", err)
			}
		case res.Skipped:
			outcome = outcomeSkipped
			logg.Info(ctx, "scheme application skipped")
		default:
			logg.Info(logg.WithFields(ctx, map[string]any{
				"added":  len(res.AddedLines),
				"tagged": len(res.TaggedLines),
			}), "scheme application committed")
		}
		u.Metrics.Observe(outcome, time.Since(start))
	}()

	if strings.TrimSpace(sel.SchemeID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "schemeId is required")
	}

	release, err := u.Guard.Acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := u.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsDraft() {
		return nil, pkgerrors.Newf(pkgerrors.CodeInvalidDocumentState, "order %s is %s", order.ID, order.DocStatus).
			WithDetails(map[string]any{"docstatus": order.DocStatus})
	}

	m := engine.NewMachine(sel.SchemeID)
	if err := m.To(engine.StateValidating, "validate", ""); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start application")
	}

	rule, ev, err := u.validate(ctx, order, sel)
	if err != nil {
		_ = m.To(engine.StateRejected, "reject", string(pkgerrors.CodeOf(err)))
		return nil, err
	}

	before := order.Clone()
	if err := m.To(engine.StateApplying, "apply", ""); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "begin mutation")
	}
	mut, err := u.Applier.Apply(order, rule, sel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply scheme")
	}

	message := "saved"
	if mut.Skipped {
		message = "transaction-level rate discounts are not supported"
	} else if err := u.Orders.Save(ctx, order); err != nil {
		return nil, err
	}

	var delta json.RawMessage
	if u.Differ != nil {
		if delta, err = u.Differ.Delta(before, *order); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute delta")
		}
	}
	if err := m.To(engine.StateCommitted, "commit", message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "commit application")
	}

	return &engine.ApplyResult{
		OrderID:         order.ID,
		SchemeID:        rule.ID,
		State:           m.State(),
		Quantity:        ev.Quantity,
		Amount:          ev.Amount,
		FreeQty:         ev.FreeQty,
		SelectedFreeQty: ev.SelectedFreeQty,
		Mutation:        mut,
		RequiresSave:    !mut.Skipped,
		Delta:           delta,
		ExecutionLog:    m.Steps(),
	}, nil
}

// validate resolves the scheme against the stored order and re-runs every
// check that must pass before a line is touched.
func (u *UseCase) validate(ctx context.Context, order *domain.Order, sel domain.Selection) (domain.Scheme, engine.Evaluation, error) {
	defs, err := u.Catalog.Definitions(ctx)
	if err != nil {
		u.Metrics.IncCatalogFailure()
		return domain.Scheme{}, engine.Evaluation{}, err
	}

	var (
		def   domain.Scheme
		found bool
	)
	for _, d := range defs {
		if d.ID == sel.SchemeID {
			def, found = d, true
			break
		}
	}
	if !found {
		return domain.Scheme{}, engine.Evaluation{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "scheme %s not found", sel.SchemeID)
	}

	rule, err := engine.ResolveForOrder(ctx, order, def, u.Conditions)
	if err != nil {
		return domain.Scheme{}, engine.Evaluation{}, err
	}
	ev, err := engine.Evaluate(order, rule, sel)
	if err != nil {
		return domain.Scheme{}, engine.Evaluation{}, err
	}
	return rule, ev, nil
}

func (u *UseCase) logger() *logger.Logger {
	if u.Logger == nil {
		return logger.Nop()
	}
	return u.Logger
}

// String renders a one-line summary of an application result for logs and
// the diagnostic CLI.
func String(res *engine.ApplyResult) string {
	if res == nil {
		return ""
	}
	return fmt.Sprintf("%s on %s: %s (qty %.2f, amount %.2f, free %.2f, +%d lines, %d tagged)",
		res.SchemeID, res.OrderID, res.State, res.Quantity, res.Amount, res.FreeQty,
		len(res.AddedLines), len(res.TaggedLines))
}
