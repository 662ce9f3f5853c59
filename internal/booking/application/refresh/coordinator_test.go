package refresh_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/praxis/internal/booking/application/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_RunsImmediatelyWhenIdle(t *testing.T) {
	c := refresh.NewCoordinator()

	ran := 0
	c.Request(func() { ran++ })

	assert.Equal(t, 1, ran)
}

func TestCoordinator_DefersWhileEditing(t *testing.T) {
	c := refresh.NewCoordinator()

	ran := 0
	c.BeginEditing()
	c.Request(func() { ran++ })
	assert.Zero(t, ran, "reload held back during an edit")

	c.EndEditing()
	assert.Equal(t, 1, ran)
}

func TestCoordinator_NewerRequestReplacesQueued(t *testing.T) {
	c := refresh.NewCoordinator()

	var ran []string
	c.BeginEditing()
	c.Request(func() { ran = append(ran, "first") })
	c.Request(func() { ran = append(ran, "second") })
	c.EndEditing()

	assert.Equal(t, []string{"second"}, ran)
}

func TestCoordinator_EndWithoutPendingIsNoop(t *testing.T) {
	c := refresh.NewCoordinator()

	c.BeginEditing()
	c.EndEditing()

	assert.False(t, c.Editing())
}

func TestCoordinator_QueuedReloadRunsOnce(t *testing.T) {
	c := refresh.NewCoordinator()

	ran := 0
	c.BeginEditing()
	c.Request(func() { ran++ })
	c.EndEditing()
	c.EndEditing()

	assert.Equal(t, 1, ran)
}

func TestCoordinator_GuardDefersReloadsWhilePromptOpen(t *testing.T) {
	c := refresh.NewCoordinator()

	ran := 0
	confirm := c.Guard(func(ctx context.Context, message string) (bool, error) {
		c.Request(func() { ran++ })
		assert.Zero(t, ran, "reload held back while the prompt is open")
		return true, nil
	})

	approved, err := confirm(context.Background(), "Double Booking Detected")
	require.NoError(t, err)
	assert.True(t, approved)
	assert.Equal(t, 1, ran, "deferred reload runs once the prompt resolves")
	assert.False(t, c.Editing())
}
