package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// AppliedSchemes scans the order and returns, per scheme, the names of the
// lines tagged with it in line order. The order-level scheme is listed with
// no lines.
func AppliedSchemes(order *domain.Order) map[string][]string {
	out := map[string][]string{}
	for _, line := range order.Lines {
		if line.SchemeID == "" {
			continue
		}
		out[line.SchemeID] = append(out[line.SchemeID], line.Name)
	}
	if order.SchemeID != "" {
		if _, ok := out[order.SchemeID]; !ok {
			out[order.SchemeID] = []string{}
		}
	}
	return out
}

func HasAppliedScheme(order *domain.Order) bool {
	if order.SchemeID != "" {
		return true
	}
	for _, line := range order.Lines {
		if line.SchemeID != "" {
			return true
		}
	}
	return false
}

// AppliedSchemeIndex is AppliedSchemes with titles resolved from the given
// definitions.
func AppliedSchemeIndex(order *domain.Order, titles map[string]string) map[string]domain.AppliedScheme {
	out := map[string]domain.AppliedScheme{}
	for id, lines := range AppliedSchemes(order) {
		out[id] = domain.AppliedScheme{Title: titles[id], Lines: lines}
	}
	return out
}
