package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken", nil)))
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindPermission, KindOf(Permission("nope")))
	assert.Equal(t, KindAuthentication, KindOf(Authentication("who")))
	assert.Equal(t, KindInternal, KindOf(Internal("broken", errors.New("cause"))))

	// Non-taxonomy errors default to internal
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer context: %w", NotFound("gone"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	appErr := As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "gone", appErr.Message)
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("query failed", cause)

	assert.Equal(t, "query failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "bad input", Validation("bad input").Error())
}

func TestAsNonTaxonomyError(t *testing.T) {
	assert.Nil(t, As(errors.New("plain")))
}
