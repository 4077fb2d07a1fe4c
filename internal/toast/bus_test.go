package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowRendersInCreationOrder(t *testing.T) {
	b := NewBus()
	defer b.Close()

	b.Success("one")
	b.Danger("two")
	b.Info("three")

	toasts := b.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "one", toasts[0].Message)
	assert.Equal(t, "two", toasts[1].Message)
	assert.Equal(t, "three", toasts[2].Message)
	assert.Equal(t, KindSuccess, toasts[0].Kind)
	assert.Equal(t, KindDanger, toasts[1].Kind)
	assert.Equal(t, KindInfo, toasts[2].Kind)
}

func TestIDsAreUniqueWithinTheSameMillisecond(t *testing.T) {
	b := NewBus()
	defer b.Close()

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := b.Warning("w")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestDismissIsIdempotent(t *testing.T) {
	b := NewBus()
	defer b.Close()

	id := b.Info("hello")
	b.Dismiss(id)
	b.Dismiss(id)
	b.Dismiss(999999) // never existed

	assert.Empty(t, b.Toasts())
}

func TestToastExpiresAutomatically(t *testing.T) {
	b := NewBus()
	defer b.Close()

	id := b.Show("short lived", KindInfo, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(b.Toasts()) == 0
	}, time.Second, 5*time.Millisecond)

	// Dismiss after expiry already fired is still a no-op.
	b.Dismiss(id)
	assert.Empty(t, b.Toasts())
}

func TestManualDismissBeforeExpiry(t *testing.T) {
	b := NewBus()
	defer b.Close()

	id := b.Show("keep", KindSuccess, time.Hour)
	other := b.Show("other", KindSuccess, time.Hour)
	b.Dismiss(id)

	toasts := b.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, other, toasts[0].ID)
}

func TestDefaultDurationApplied(t *testing.T) {
	b := NewBus()
	defer b.Close()

	b.Show("msg", KindInfo, 0)

	toasts := b.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, DefaultDuration, toasts[0].Duration)
}

func TestCloseDropsEverything(t *testing.T) {
	b := NewBus()
	b.Info("a")
	b.Close()

	assert.Empty(t, b.Toasts())
	assert.Zero(t, b.Show("late", KindInfo, time.Second))
}
