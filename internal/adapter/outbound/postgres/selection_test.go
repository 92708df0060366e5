package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamdeck/console/internal/port/outbound"
)

// openTestDB connects to CONSOLE_TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("CONSOLE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CONSOLE_TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		db.Exec("DELETE FROM tenant_selections WHERE user_key LIKE 'test:%'")
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestSelectionAdapter_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewSelectionAdapter(db, time.Hour)
	ctx := context.Background()

	_, err := store.Load(ctx, "team", "test:ada")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)

	require.NoError(t, store.Save(ctx, "team", "test:ada", 3))
	require.NoError(t, store.Save(ctx, "team", "test:ada", 5))

	id, err := store.Load(ctx, "team", "test:ada")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	require.NoError(t, store.Clear(ctx, "team", "test:ada"))
	_, err = store.Load(ctx, "team", "test:ada")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)
}

func TestSelectionAdapter_StaleRow(t *testing.T) {
	db := openTestDB(t)
	store := NewSelectionAdapter(db, time.Hour).(*selectionAdapter)
	ctx := context.Background()

	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	require.NoError(t, store.Save(ctx, "team", "test:grace", 9))
	store.now = time.Now

	_, err := store.Load(ctx, "team", "test:grace")
	assert.ErrorIs(t, err, outbound.ErrNoSelection)
}
