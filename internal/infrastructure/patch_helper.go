package infrastructure

import (
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyOrderPatch applies an RFC 6902 patch to the order and returns the
// result. The order's identity cannot be changed by a patch.
func ApplyOrderPatch(original domain.Order, patchData []byte) (domain.Order, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return original, fmt.Errorf("encode order: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return original, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "failed to decode patch")
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return original, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "failed to apply patch")
	}

	var updated domain.Order
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return original, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "patched order is not valid")
	}
	if updated.ID != original.ID {
		return original, pkgerrors.New(pkgerrors.CodeValidation, "order id cannot be patched")
	}
	if updated.DocStatus != original.DocStatus {
		return original, pkgerrors.New(pkgerrors.CodeValidation, "docstatus cannot be patched")
	}
	return updated, nil
}
