package repository

import (
	"context"
	"testing"
	"time"

	"prokat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepository(t *testing.T) {
	repo := NewMemoryStateRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := models.NewRentalSession(123, 5)
		require.NoError(t, repo.SetSession(ctx, session))

		got, err := repo.GetSession(ctx, 123)
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("StoredCopyIsIsolated", func(t *testing.T) {
		session := models.NewRentalSession(124, 5)
		require.NoError(t, repo.SetSession(ctx, session))

		session.Rental.Hours = 99

		got, err := repo.GetSession(ctx, 124)
		require.NoError(t, err)
		assert.Zero(t, got.Rental.Hours)

		got.Rental.Step = models.RentalAwaitingPhone
		again, _ := repo.GetSession(ctx, 124)
		assert.Equal(t, models.RentalAwaitingDuration, again.Rental.Step)
	})

	t.Run("ClearSession", func(t *testing.T) {
		require.NoError(t, repo.ClearSession(ctx, 123))
		got, _ := repo.GetSession(ctx, 123)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(456)
		window := 50 * time.Millisecond
		allowed, _ := repo.CheckRateLimit(ctx, userID, 2, window)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, window)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, window)
		assert.False(t, allowed)

		time.Sleep(window + 10*time.Millisecond)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, window)
		assert.True(t, allowed)
	})
}

func TestMemoryStateRepository_TTL(t *testing.T) {
	repo := NewMemoryStateRepository(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, models.NewInventorySession(1)))
	time.Sleep(30 * time.Millisecond)

	got, err := repo.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
