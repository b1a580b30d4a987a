package diff

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

type Differ struct{}

// Delta returns the JSON merge patch (RFC 7386) that turns before into after,
// or nil when nothing changed.
func (d *Differ) Delta(before, after domain.Order) (json.RawMessage, error) {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(beforeJSON, afterJSON)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	if len(patch) <= 2 {
		return nil, nil
	}
	return patch, nil
}

// LineChanges names the lines added, removed and modified between two
// versions of an order.
type LineChanges struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

func (c LineChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

func (d *Differ) Lines(before, after domain.Order) LineChanges {
	old := make(map[string]domain.OrderLine, len(before.Lines))
	for _, l := range before.Lines {
		old[l.Name] = l
	}

	var out LineChanges
	seen := make(map[string]struct{}, len(after.Lines))
	for _, l := range after.Lines {
		seen[l.Name] = struct{}{}
		prev, ok := old[l.Name]
		switch {
		case !ok:
			out.Added = append(out.Added, l.Name)
		case !reflect.DeepEqual(prev, l):
			out.Changed = append(out.Changed, l.Name)
		}
	}
	for _, l := range before.Lines {
		if _, ok := seen[l.Name]; !ok {
			out.Removed = append(out.Removed, l.Name)
		}
	}
	return out
}
