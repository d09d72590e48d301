package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"launchpad/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB starts a PostgreSQL container, migrates the token schema
// and returns a connected store. The returned cleanup must be called
// after tests complete.
func setupTestDB(t *testing.T) (*TokenStore, func()) {
	return setupTestDBWith(t, func(t *testing.T, db *gorm.DB) {
		require.NoError(t, db.AutoMigrate(&models.Token{}), "failed to migrate schema")
	})
}

// setupTestDBFromMigrations provisions the schema from the SQL migration
// files instead of AutoMigrate, the way a fresh deployment would.
func setupTestDBFromMigrations(t *testing.T) (*TokenStore, func()) {
	return setupTestDBWith(t, func(t *testing.T, db *gorm.DB) {
		path := filepath.Join("..", "..", "migrations", "000001_create_tokens.up.sql")
		sql, err := os.ReadFile(path)
		require.NoError(t, err, "failed to read migration file")

		// One Exec per statement; the driver rejects multi-statement strings
		for _, stmt := range strings.Split(string(sql), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			require.NoError(t, db.Exec(stmt).Error, "failed to execute migration statement")
		}
	})
}

func setupTestDBWith(t *testing.T, migrate func(*testing.T, *gorm.DB)) (*TokenStore, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to database")

	migrate(t, db)

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return NewTokenStore(db), cleanup
}
