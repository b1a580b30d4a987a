package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/diff"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/yaml"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/Victor-armando18/pricing-scheme/pkg/engine"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
)

func main() {
	schemesPath := flag.String("schemes", "data/schemes.yaml", "scheme definitions (JSON or YAML)")
	orderPath := flag.String("order", "data/orders/sample.yaml", "order document (YAML)")
	apply := flag.String("apply", "", "scheme id to apply")
	rows := flag.String("rows", "", "comma separated row names; defaults to every applicable row")
	free := flag.String("free", "", "free item selection, e.g. FREE-1=2,FREE-2=0.5")
	auto := flag.Bool("auto", false, "apply schemes flagged for automatic application")
	remove := flag.String("remove", "", "scheme id to remove after applying")
	flag.Parse()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("   PRICING SCHEME CLI - DIAGNOSTIC TOOL")
	fmt.Println(strings.Repeat("=", 60))

	ctx := context.Background()
	order, err := yaml.LoadOrder(*orderPath)
	if err != nil {
		fail("could not read order", err)
	}

	eng := engine.New(engine.Options{
		SchemesPath: *schemesPath,
		Logger:      logger.New(logger.Options{ServiceName: "pricing-scheme-cli", Format: "console", Level: logger.ParseLevel("warn")}),
	})
	saved, err := eng.SaveOrder(ctx, order)
	if err != nil {
		fail("order rejected", err)
	}
	printOrder("1. ORDER", saved)

	catalog, err := eng.AvailableSchemes(ctx, saved.ID)
	if err != nil && !pkgerrors.Is(err, pkgerrors.CodeCatalogUnavailable) {
		fail("could not build catalog", err)
	}
	printCatalog(catalog, err)

	if *auto {
		updated, err := eng.AutoApply(ctx, saved.ID)
		if err != nil {
			fail("auto-apply failed", err)
		}
		printOrder("3. AFTER AUTO-APPLY", updated)
		printChanges(*saved, *updated)
		saved = updated

		catalog, err = eng.AvailableSchemes(ctx, saved.ID)
		if err != nil && !pkgerrors.Is(err, pkgerrors.CodeCatalogUnavailable) {
			fail("could not rebuild catalog", err)
		}
	}

	if *apply != "" {
		rule, ok := catalog.Rules[*apply]
		if !ok {
			fail("scheme is not offered for this order", fmt.Errorf("%s", *apply))
		}
		sel := engine.Selection{SchemeID: *apply, SchemeRows: split(*rows)}
		if len(sel.SchemeRows) == 0 && !rule.IsTransaction() {
			sel.SchemeRows = rule.ApplicableItems
		}
		sel.FreeItems, err = freeSelection(*free, rule, catalog, sel.SchemeRows)
		if err != nil {
			fail("invalid -free value", err)
		}

		res, err := eng.ApplyScheme(ctx, saved.ID, sel)
		if err != nil {
			fail("application rejected", err)
		}
		printResult(res)

		updated, err := eng.GetOrder(ctx, saved.ID)
		if err != nil {
			fail("could not reload order", err)
		}
		printOrder("5. ORDER AFTER APPLICATION", updated)
		printChanges(*saved, *updated)
		saved = updated
	}

	if *remove != "" {
		updated, err := eng.RemoveScheme(ctx, saved.ID, *remove)
		if err != nil {
			fail("removal failed", err)
		}
		printOrder("6. ORDER AFTER REMOVAL", updated)
		printChanges(*saved, *updated)
	}

	pending, err := eng.HasEligibleUnappliedSchemes(ctx, saved.ID)
	if err != nil {
		fail("submission gate failed", err)
	}
	fmt.Println("\n[SUBMISSION GATE]")
	fmt.Printf("   Eligible unapplied schemes: %v\n", pending)
	fmt.Println(strings.Repeat("=", 60))
}

// freeSelection parses -free, or gives the whole entitlement to the first
// free item when the flag is empty.
func freeSelection(raw string, rule engine.Scheme, catalog *engine.Catalog, rows []string) ([]engine.FreeItemSelection, error) {
	if !rule.IsProduct() {
		return nil, nil
	}
	if raw == "" {
		if len(rule.FreeItems) == 0 {
			return nil, nil
		}
		var qty float64
		for _, name := range rows {
			agg := catalog.Items[name]
			if rule.QtyBasedOn == "Weight" {
				qty += agg.Weight
			} else {
				qty += agg.StockQty
			}
		}
		entitled := engine.FreeQty(qty, rule)
		if rule.QtyBasedOn == "Weight" && rule.FreeItems[0].UnitWeight > 0 {
			entitled /= rule.FreeItems[0].UnitWeight
		}
		return []engine.FreeItemSelection{{ItemCode: rule.FreeItems[0].ItemCode, Qty: entitled}}, nil
	}

	var out []engine.FreeItemSelection
	for _, part := range split(raw) {
		code, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not ITEM=QTY", part)
		}
		qty, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		out = append(out, engine.FreeItemSelection{ItemCode: strings.TrimSpace(code), Qty: qty})
	}
	return out, nil
}

func printOrder(title string, order *engine.Order) {
	fmt.Printf("\n[%s] %s (%s)\n", title, order.ID, order.DocStatus)
	for _, l := range order.Lines {
		marker := ""
		if l.IsFreeItem {
			marker = " FREE"
		}
		fmt.Printf("   #%-2d %-10s %-10s qty %8.2f  rate %8.2f  amount %9.2f  %s%s\n",
			l.Idx, l.Name, l.ItemCode, l.Qty, l.Rate, l.Amount, l.SchemeID, marker)
	}
	fmt.Printf("   Net total: %.2f   Grand total: %.2f   Order scheme: %s\n", order.NetTotal, order.GrandTotal, order.SchemeID)
}

func printCatalog(catalog *engine.Catalog, err error) {
	fmt.Println("\n[2. AVAILABLE SCHEMES]")
	if err != nil {
		fmt.Printf("   no schemes available: %v\n", err)
	}
	if catalog.IsEmpty() {
		fmt.Println("   (none)")
	}
	for _, id := range catalog.Ordered() {
		rule := catalog.Rules[id]
		fmt.Printf("   %-12s %-28s %-11s %-7s rows=%v\n", id, rule.Title, rule.ApplyOn, rule.PriceOrProductDiscount, rule.ApplicableItems)
	}
	for id, applied := range catalog.AppliedSchemes {
		fmt.Printf("   applied: %-12s %-28s rows=%v\n", id, applied.Title, applied.Lines)
	}
}

func printResult(res *engine.ApplyResult) {
	fmt.Println("\n[4. EXECUTION LOG]")
	for _, step := range res.ExecutionLog {
		fmt.Printf("   [%-10s] %-10s %s\n", strings.ToUpper(string(step.Phase)), step.Action, step.Message)
	}
	fmt.Printf("   Aggregate qty %.2f, amount %.2f, free %.2f (selected %.2f)\n",
		res.Quantity, res.Amount, res.FreeQty, res.SelectedFreeQty)
	fmt.Printf("   Added %v, tagged %v, skipped %v, save required %v\n",
		res.AddedLines, res.TaggedLines, res.Skipped, res.RequiresSave)
	if len(res.Delta) > 0 {
		var delta any
		if err := json.Unmarshal(res.Delta, &delta); err == nil {
			out, _ := json.MarshalIndent(delta, "   ", "  ")
			fmt.Printf("   Delta:\n   %s\n", out)
		}
	}
}

func printChanges(before, after engine.Order) {
	changes := (&diff.Differ{}).Lines(before, after)
	if changes.Empty() {
		fmt.Println("   No line changes.")
		return
	}
	fmt.Printf("   Lines added %v, removed %v, changed %v\n", changes.Added, changes.Removed, changes.Changed)
}

func split(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fail(msg string, err error) {
	fmt.Printf("\nERROR: %s: %v\n", msg, err)
	os.Exit(1)
}
