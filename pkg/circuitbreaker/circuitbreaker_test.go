package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute
	cb := New[int](cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errBoom })
		require.ErrorIs(t, err, errBoom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	calls := 0
	_, err := cb.Execute(func() (int, error) {
		calls++
		return 1, nil
	})
	assert.True(t, IsOpen(err))
	assert.Equal(t, 0, calls)
}

func TestBreaker_IsSuccessfulIgnoresExpectedErrors(t *testing.T) {
	errMiss := errors.New("miss")
	cfg := DefaultConfig("test")
	cfg.FailureThreshold = 1
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errMiss) }
	cb := New[string](cfg, nil)

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (string, error) { return "", errMiss })
		require.ErrorIs(t, err, errMiss)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsOpen(t *testing.T) {
	assert.True(t, IsOpen(gobreaker.ErrOpenState))
	assert.True(t, IsOpen(gobreaker.ErrTooManyRequests))
	assert.False(t, IsOpen(errBoom))
	assert.False(t, IsOpen(nil))
}
