package engine

import (
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectedFreeQtyByBasis(t *testing.T) {
	t.Parallel()

	rule := productRule()
	selected := []domain.FreeItemSelection{
		{ItemCode: "FREE-1", Qty: 2},
		{ItemCode: "FREE-2", Qty: 3},
	}

	assert.Equal(t, 5.0, SelectedFreeQty(selected, rule))

	rule.QtyBasedOn = domain.QtyBasedOnWeight
	assert.InDelta(t, 2*1.5+3*0.5, SelectedFreeQty(selected, rule), 1e-9)
}

func TestCheckSelectionMismatch(t *testing.T) {
	t.Parallel()

	err := CheckSelection(3, 3.2)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeSelectionMismatch, typed.Code())
	assert.Equal(t, "Please select exactly 3.20 free items, you have selected 3.00.", typed.Message())

	details := typed.Details().(map[string]any)
	assert.Equal(t, 3.2, details["required"])
	assert.Equal(t, 3.0, details["selected"])
}

func TestCheckSelectionWithinTolerance(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckSelection(3.7, 3.7))
	assert.NoError(t, CheckSelection(3.65, 3.7))
	assert.Error(t, CheckSelection(3.5, 3.7))
}

func TestValidateFreeItems(t *testing.T) {
	t.Parallel()

	rule := productRule()
	assert.NoError(t, ValidateFreeItems([]domain.FreeItemSelection{{ItemCode: "FREE-1", Qty: 1}}, rule))

	err := ValidateFreeItems([]domain.FreeItemSelection{{ItemCode: "OTHER", Qty: 1}}, rule)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	err = ValidateFreeItems([]domain.FreeItemSelection{{ItemCode: "FREE-1", Qty: -1}}, rule)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
