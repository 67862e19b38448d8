package service_test

import (
	"testing"

	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestGate_PerAccountScopes(t *testing.T) {
	gate := service.NewGate(false)

	assert.True(t, gate.TryAcquire("+84111111111"))
	assert.False(t, gate.TryAcquire("+84111111111"))

	// another account is unaffected
	assert.True(t, gate.TryAcquire("+84222222222"))

	gate.Release("+84111111111")
	assert.True(t, gate.TryAcquire("+84111111111"))
}

func TestGate_GlobalScopeCollapsesAccounts(t *testing.T) {
	gate := service.NewGate(true)

	assert.True(t, gate.TryAcquire("+84111111111"))
	assert.False(t, gate.TryAcquire("+84222222222"))

	gate.Release("+84111111111")
	assert.True(t, gate.TryAcquire("+84222222222"))
}

func TestGate_ReleaseWithoutAcquirePanics(t *testing.T) {
	gate := service.NewGate(false)

	assert.Panics(t, func() { gate.Release("+84111111111") })
}

func TestGate_DoubleReleasePanics(t *testing.T) {
	gate := service.NewGate(false)

	assert.True(t, gate.TryAcquire("+84111111111"))
	gate.Release("+84111111111")

	assert.Panics(t, func() { gate.Release("+84111111111") })
}
