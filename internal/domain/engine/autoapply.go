package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// AutoApply tags lines with every Price scheme flagged for automatic
// application, in catalog priority order. Lines already tagged are left
// alone, as are lines the user opted out of when the scheme allows skipping.
// It returns the names of the lines it changed.
func AutoApply(order *domain.Order, catalog *domain.Catalog) []string {
	var changed []string
	for _, id := range catalog.Ordered() {
		rule := catalog.Rules[id]
		if !rule.AutoApply || rule.IsProduct() || len(rule.ApplicableItems) == 0 {
			continue
		}
		for i := range order.Lines {
			line := &order.Lines[i]
			if line.SchemeID != "" || line.IsFreeItem {
				continue
			}
			if line.SkipAutoApply && rule.AllowSkipping {
				continue
			}
			if !rule.AppliesTo(line.Name) {
				continue
			}
			adj, err := ResolveDiscount(*line, rule)
			if err != nil {
				break
			}
			line.SchemeID = rule.ID
			adj.ApplyTo(line)
			changed = append(changed, line.Name)
		}
	}
	if len(changed) > 0 {
		order.Recalculate()
	}
	return changed
}
