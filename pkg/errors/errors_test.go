package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	base := New(CodeSelectionMismatch, "pick again")
	wrapped := fmt.Errorf("apply: %w", base)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeSelectionMismatch, typed.Code())
	assert.True(t, Is(wrapped, CodeSelectionMismatch))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
}

func TestOnlyInvalidDocumentStateIsFatal(t *testing.T) {
	t.Parallel()

	for _, code := range []Code{
		CodeCatalogUnavailable,
		CodeIneligible,
		CodeSelectionMismatch,
		CodeConcurrentApplication,
	} {
		assert.True(t, Recoverable(code), "code %s should be recoverable", code)
	}
	assert.False(t, Recoverable(CodeInvalidDocumentState))
}

func TestMetadataFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("UNKNOWN"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConcurrentApplication).HTTPStatus)
}
