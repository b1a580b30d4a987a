package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/domain/engine"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/yaml"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"go.uber.org/multierr"
)

// FileCatalogSource serves scheme definitions from a JSON or YAML file. The
// file is read on every call so edits take effect without a restart.
type FileCatalogSource struct {
	path       string
	conditions interfaces.ConditionEvaluator
}

func NewFileCatalogSource(path string, conditions interfaces.ConditionEvaluator) *FileCatalogSource {
	return &FileCatalogSource{path: path, conditions: conditions}
}

func (l *FileCatalogSource) FetchRules(ctx context.Context, order *domain.Order) (*domain.Catalog, error) {
	defs, err := l.Definitions(ctx)
	if err != nil {
		return nil, err
	}
	return engine.BuildCatalog(ctx, order, defs, l.conditions), nil
}

func (l *FileCatalogSource) Definitions(ctx context.Context) ([]domain.Scheme, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, "catalog fetch cancelled")
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, fmt.Sprintf("failed to read scheme file %s", l.path))
	}

	pack, err := decodePack(l.path, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, "failed to unmarshal scheme definitions")
	}
	if err := ValidateDefinitions(pack.Schemes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, "invalid scheme definitions")
	}
	return pack.Schemes, nil
}

func decodePack(path string, data []byte) (yaml.SchemePack, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var pack yaml.SchemePack
		if err := json.Unmarshal(data, &pack); err != nil {
			return yaml.SchemePack{}, err
		}
		return pack, nil
	}
	return yaml.ParseSchemePack(data)
}

// ValidateDefinitions reports every structural problem in a set of scheme
// definitions at once.
func ValidateDefinitions(defs []domain.Scheme) error {
	var errs error
	seen := make(map[string]struct{}, len(defs))
	for i, d := range defs {
		ref := d.ID
		if ref == "" {
			ref = fmt.Sprintf("#%d", i+1)
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: id is required", ref))
		} else if _, dup := seen[d.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: duplicate id", ref))
		}
		seen[d.ID] = struct{}{}

		switch d.ApplyOn {
		case domain.ApplyOnItem, domain.ApplyOnTransaction:
		default:
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: applyOn must be Item or Transaction", ref))
		}
		switch d.QtyBasedOn {
		case "", domain.QtyBasedOnStock, domain.QtyBasedOnWeight:
		default:
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: unknown qtyBasedOn %q", ref, d.QtyBasedOn))
		}

		switch d.PriceOrProductDiscount {
		case domain.PriceDiscount:
			if _, ok := engine.FieldFor(d.RateOrDiscount); !ok {
				errs = multierr.Append(errs, fmt.Errorf("scheme %s: unknown rateOrDiscount %q", ref, d.RateOrDiscount))
			}
		case domain.ProductDiscount:
			if len(d.FreeItems) == 0 {
				errs = multierr.Append(errs, fmt.Errorf("scheme %s: product schemes need at least one free item", ref))
			}
			if d.IsRecursive && d.RecurseFor <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("scheme %s: recursive schemes need recurseFor > 0", ref))
			}
		default:
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: priceOrProductDiscount must be Price or Product", ref))
		}

		if d.MinQty != nil && d.MaxQty != nil && *d.MaxQty != 0 && *d.MinQty > *d.MaxQty {
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: minQty exceeds maxQty", ref))
		}
		if d.MinAmt != nil && d.MaxAmt != nil && *d.MaxAmt != 0 && *d.MinAmt > *d.MaxAmt {
			errs = multierr.Append(errs, fmt.Errorf("scheme %s: minAmt exceeds maxAmt", ref))
		}
	}
	return errs
}

// StaticCatalogSource serves a fixed set of definitions held in memory.
type StaticCatalogSource struct {
	Schemes    []domain.Scheme
	Conditions interfaces.ConditionEvaluator
}

func (s *StaticCatalogSource) FetchRules(ctx context.Context, order *domain.Order) (*domain.Catalog, error) {
	return engine.BuildCatalog(ctx, order, s.Schemes, s.Conditions), nil
}

func (s *StaticCatalogSource) Definitions(context.Context) ([]domain.Scheme, error) {
	out := make([]domain.Scheme, len(s.Schemes))
	copy(out, s.Schemes)
	return out, nil
}
