package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errSMTP = errors.New("dial tcp: connection refused")

func breakerConReloj(cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(cfg)
	ahora := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return ahora }
	return cb, &ahora
}

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb, _ := breakerConReloj(CircuitBreakerConfig{Name: "smtp", FailureThreshold: 3})

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errSMTP }), errSMTP)
	}
	assert.Equal(t, CBClosed, cb.State())

	// A success resets the streak.
	assert.NoError(t, cb.Execute(func() error { return nil }))
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSMTP })
	}
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_SemiAbiertoCierraConExitos(t *testing.T) {
	cb, ahora := breakerConReloj(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: time.Minute})

	_ = cb.Execute(func() error { return errSMTP })
	assert.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbiertoReabreAlFallar(t *testing.T) {
	cb, ahora := breakerConReloj(CircuitBreakerConfig{FailureThreshold: 5, OpenTimeout: time.Second})
	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return errSMTP })
	}
	*ahora = ahora.Add(2 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errSMTP })
	assert.Equal(t, CBOpen, cb.State())
	assert.Equal(t, "open", cb.State().String())
}
