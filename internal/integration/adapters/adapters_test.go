package adapters

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/integration/persistence"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	durations := TokenDurations{Access: 15 * time.Minute, Refresh: 24 * time.Hour}
	repo := persistence.NewTokenRepository(newRedisClient(t))
	svc := NewTokenService("secret", durations, repo)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(ctx, userID, "ada@example.com", false)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, pair.ExpiresIn)

	t.Run("access token carries the user", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "ada@example.com", claims.Email)
	})

	t.Run("token types are not interchangeable", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(ctx, pair.RefreshToken)
		assert.Error(t, err)
		_, err = svc.ValidateRefreshToken(ctx, pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("foreign signature is rejected", func(t *testing.T) {
		other := NewTokenService("other-secret", durations, repo)
		_, err := other.ValidateAccessToken(ctx, pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("refresh token is registered until invalidated", func(t *testing.T) {
		valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.True(t, valid)

		require.NoError(t, svc.InvalidateRefreshToken(ctx, pair.RefreshToken))
		valid, err = svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("remember me extends the access token", func(t *testing.T) {
		long, err := svc.GenerateTokenPair(ctx, userID, "ada@example.com", true)
		require.NoError(t, err)
		assert.Equal(t, rememberMeAccessTokenDuration, long.ExpiresIn)
		assert.NotEqual(t, pair.RefreshToken, long.RefreshToken)
	})
}

func TestPasswordService(t *testing.T) {
	svc := &passwordService{cost: 4}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "budget2026"},
		{name: "too short", password: "ab1", wantErr: true},
		{name: "no digit", password: "onlyletters", wantErr: true},
		{name: "no letter", password: "1234567890", wantErr: true},
		{name: "too long", password: string(bytes.Repeat([]byte("a1"), 40)), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("hash verifies", func(t *testing.T) {
		hash, err := svc.HashPassword("budget2026")
		require.NoError(t, err)
		assert.NoError(t, svc.VerifyPassword(hash, "budget2026"))
		assert.Error(t, svc.VerifyPassword(hash, "budget2027"))
	})
}

func TestRedisSaveLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewRedisSaveLocker(newRedisClient(t))

	release, err := locker.Obtain(ctx, "finance:save:u1", time.Second)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "finance:save:u1", time.Second)
	assert.ErrorIs(t, err, redislock.ErrNotObtained)

	require.NoError(t, release(ctx))
	release, err = locker.Obtain(ctx, "finance:save:u1", time.Second)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestXLSXExporter(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	history := budget.History{
		Entries: []budget.HistoryEntry{
			{Type: budget.EntryExpense, Amount: 30, Description: "lunch", Date: day, CategoryName: "WANTS", SubcategoryName: "Food"},
			{Type: budget.EntryIncome, Amount: 1000, Description: "salary", Source: "employer", Date: day.AddDate(0, 0, -1)},
			{Type: budget.EntryExpense, Amount: 20, Description: "bus", Date: day.AddDate(0, 0, -2), CategoryName: "NEEDS", SubcategoryName: "Transport"},
		},
		Income:   1000,
		Expenses: 50,
		Net:      950,
	}
	exporter := NewXLSXExporter()

	content, err := exporter.Export(history)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", exporter.Extension())

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{expensesSheet, incomeSheet}, f.GetSheetList())

	expenses, err := f.GetRows(expensesSheet)
	require.NoError(t, err)
	require.Len(t, expenses, 4)
	assert.Equal(t, []string{"Date", "Category", "Subcategory", "Description", "Amount"}, expenses[0])
	assert.Equal(t, []string{"2026-04-02", "WANTS", "Food", "lunch", "30"}, expenses[1])
	assert.Equal(t, "Total", expenses[3][0])
	assert.Equal(t, "50", expenses[3][4])

	income, err := f.GetRows(incomeSheet)
	require.NoError(t, err)
	require.Len(t, income, 3)
	assert.Equal(t, []string{"2026-04-01", "employer", "salary", "1000"}, income[1])
}
