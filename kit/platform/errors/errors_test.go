package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/factoryd/kit/platform/errors"
)

func TestErrInternalServiceError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, errors.ErrInternalServiceError(nil, errors.WithErrorOp("Op")))
	})

	t.Run("plain error is wrapped as EInternal with options applied", func(t *testing.T) {
		err := errors.ErrInternalServiceError(stderrors.New("boom"), errors.WithErrorOp("FindThing"))
		e, ok := err.(*errors.Error)
		require.True(t, ok)
		assert.Equal(t, errors.EInternal, e.Code)
		assert.Equal(t, "FindThing", e.Op)
		assert.Equal(t, "boom", e.Err.Error())
	})

	t.Run("platform error passes through untouched", func(t *testing.T) {
		// Callers hand shared sentinel errors to this helper from
		// concurrent requests; it must never write to them.
		sentinel := &errors.Error{Code: errors.ENotFound, Msg: "thing not found"}

		err := errors.ErrInternalServiceError(sentinel, errors.WithErrorOp("FindThing"))
		assert.Same(t, sentinel, err)
		assert.Empty(t, sentinel.Op)

		err = errors.ErrInternalServiceError(sentinel, errors.WithErrorOp("UpdateThing"))
		require.Equal(t, sentinel, err)
		assert.Empty(t, sentinel.Op)
	})
}
