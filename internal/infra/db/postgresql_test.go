package db

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDatabaseHealthCheck(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database := NewDatabase(conn)

	assert.True(t, database.HealthCheck(context.Background()))

	require.NoError(t, database.Close())
	assert.False(t, database.HealthCheck(context.Background()))
}
