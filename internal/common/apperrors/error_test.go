package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("TestError", func(t *testing.T) {
		ErrBaseErr := New("base error")
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
		assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

		ErrFirstLevel := ErrBaseErr.New("first level")
		assert.Equal(t, "first level", ErrFirstLevel.Error())
		assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

		ErrAnotherErr := New("another error")
		ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErr)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)

		err := errors.New("error")
		ErrWrappedErr = ErrFirstLevel.Err(err)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
		assert.Equal(t, "msg", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)
	})
}

func TestErrorStatusCode(t *testing.T) {
	ErrBase := New("base error").SetStatusCode(500)
	assert.Equal(t, 500, ErrBase.StatusCode())

	// Derived errors inherit the status code until overridden.
	ErrDerived := ErrBase.New("derived")
	assert.Equal(t, 500, ErrDerived.StatusCode())
	ErrDerived = ErrDerived.SetStatusCode(404)
	assert.Equal(t, 404, ErrDerived.StatusCode())
	assert.Equal(t, 500, ErrBase.StatusCode())
}

func TestErrorPrefixSuffix(t *testing.T) {
	err := New("invalid input").Prefix("create application").Suffix("name: myapp")
	assert.Equal(t, "create application: invalid input: name: myapp", err.Error())
	// Error() must not accumulate the prefix on repeated calls.
	assert.Equal(t, "create application: invalid input: name: myapp", err.Error())
}

func TestErrorAll(t *testing.T) {
	cause := errors.New("connection refused")
	err := New("db error").New("unable to load row").Err(cause)
	assert.Equal(t, "unable to load row", err.ErrorAll())
	err.SetExpandError(true)
	assert.Equal(t, "unable to load row: connection refused", err.ErrorAll())
}
