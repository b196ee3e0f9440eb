package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorage_WrapsPlainError(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("upsert", cause)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage upsert: disk full", err.Error())
}

func TestStorage_Nil(t *testing.T) {
	assert.NoError(t, Storage("load", nil))
}

func TestStorage_KeepsSentinels(t *testing.T) {
	err := Storage("get", ErrNotFound)
	assert.False(t, IsStorage(err))
	assert.ErrorIs(t, err, ErrNotFound)

	err = Storage("modify", ErrNotEligible)
	assert.False(t, IsStorage(err))
}

func TestStorage_DoesNotDoubleWrap(t *testing.T) {
	inner := Storage("load", errors.New("boom"))
	outer := Storage("list", inner)

	var se *StorageError
	assert.True(t, errors.As(outer, &se))
	assert.Equal(t, "load", se.Op)
}

func TestInvalid(t *testing.T) {
	err := Invalid("name is %s", "empty")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name is empty")
}
