package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("saved token is valid until it expires", func(t *testing.T) {
		client, server := newTestRedis(t)
		repo := NewTokenRepository(client)

		require.NoError(t, repo.SaveRefreshToken(ctx, "tok-1", uuid.New(), time.Now().Add(time.Hour)))

		valid, err := repo.IsRefreshTokenValid(ctx, "tok-1")
		require.NoError(t, err)
		assert.True(t, valid)

		server.FastForward(2 * time.Hour)
		valid, err = repo.IsRefreshTokenValid(ctx, "tok-1")
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("already expired token is not stored", func(t *testing.T) {
		client, _ := newTestRedis(t)
		repo := NewTokenRepository(client)

		require.NoError(t, repo.SaveRefreshToken(ctx, "old", uuid.New(), time.Now().Add(-time.Minute)))

		valid, err := repo.IsRefreshTokenValid(ctx, "old")
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("invalidate one token", func(t *testing.T) {
		client, _ := newTestRedis(t)
		repo := NewTokenRepository(client)
		userID := uuid.New()
		require.NoError(t, repo.SaveRefreshToken(ctx, "a", userID, time.Now().Add(time.Hour)))
		require.NoError(t, repo.SaveRefreshToken(ctx, "b", userID, time.Now().Add(time.Hour)))

		require.NoError(t, repo.InvalidateRefreshToken(ctx, "a"))
		require.NoError(t, repo.InvalidateRefreshToken(ctx, "unknown"))

		valid, err := repo.IsRefreshTokenValid(ctx, "a")
		require.NoError(t, err)
		assert.False(t, valid)
		valid, err = repo.IsRefreshTokenValid(ctx, "b")
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("invalidate all tokens of a user", func(t *testing.T) {
		client, _ := newTestRedis(t)
		repo := NewTokenRepository(client)
		alice, bob := uuid.New(), uuid.New()
		require.NoError(t, repo.SaveRefreshToken(ctx, "a1", alice, time.Now().Add(time.Hour)))
		require.NoError(t, repo.SaveRefreshToken(ctx, "a2", alice, time.Now().Add(time.Hour)))
		require.NoError(t, repo.SaveRefreshToken(ctx, "b1", bob, time.Now().Add(time.Hour)))

		require.NoError(t, repo.InvalidateAllUserRefreshTokens(ctx, alice))

		for token, want := range map[string]bool{"a1": false, "a2": false, "b1": true} {
			valid, err := repo.IsRefreshTokenValid(ctx, token)
			require.NoError(t, err)
			assert.Equal(t, want, valid, token)
		}
	})
}

func TestReminderLedger(t *testing.T) {
	ctx := context.Background()
	client, server := newTestRedis(t)
	ledger := NewReminderLedger(client)
	due := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	first, err := ledger.MarkSent(ctx, "debt-1", due)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ledger.MarkSent(ctx, "debt-1", due.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, again, "same day is claimed once")

	nextMonth, err := ledger.MarkSent(ctx, "debt-1", due.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, nextMonth)

	assert.Equal(t, reminderRetention, server.TTL(reminderPrefix+"debt-1:2026-05-10"))
}
