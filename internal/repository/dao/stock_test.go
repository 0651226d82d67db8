package dao_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Shreevatsags/ecommerce-platform/internal/repository/dao"
)

// openTestPostgres starts a throwaway Postgres container. Skipped when
// Docker is not available.
func openTestPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping docker-backed test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=inventory_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	var db *gorm.DB
	err = pool.Retry(func() error {
		dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=inventory_test sslmode=disable",
			resource.GetPort("5432/tcp"))

		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, dao.InitTables(db))

	return db
}

func TestStockDAO_Postgres(t *testing.T) {
	ctx := context.Background()
	stockDAO := dao.NewStockDAO(openTestPostgres(t))

	t.Run("set and get total", func(t *testing.T) {
		require.NoError(t, stockDAO.SetTotal(ctx, "P1", 10))

		total, err := stockDAO.GetTotal(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, 10, total)

		// Repeated set overwrites.
		require.NoError(t, stockDAO.SetTotal(ctx, "P1", 3))
		total, err = stockDAO.GetTotal(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("unknown product reads zero", func(t *testing.T) {
		total, err := stockDAO.GetTotal(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("set rejects negative quantity", func(t *testing.T) {
		err := stockDAO.SetTotal(ctx, "P2", -1)
		assert.ErrorIs(t, err, dao.ErrInvalidQuantity)
	})

	t.Run("adjust up and down", func(t *testing.T) {
		require.NoError(t, stockDAO.SetTotal(ctx, "P3", 10))
		require.NoError(t, stockDAO.AdjustTotal(ctx, "P3", -4))
		require.NoError(t, stockDAO.AdjustTotal(ctx, "P3", 2))

		total, err := stockDAO.GetTotal(ctx, "P3")
		require.NoError(t, err)
		assert.Equal(t, 8, total)
	})

	t.Run("adjust creates missing record", func(t *testing.T) {
		require.NoError(t, stockDAO.AdjustTotal(ctx, "P4", 5))

		total, err := stockDAO.GetTotal(ctx, "P4")
		require.NoError(t, err)
		assert.Equal(t, 5, total)
	})

	t.Run("decrement past zero is rejected", func(t *testing.T) {
		require.NoError(t, stockDAO.SetTotal(ctx, "P5", 3))

		err := stockDAO.AdjustTotal(ctx, "P5", -4)
		assert.ErrorIs(t, err, dao.ErrInsufficientStock)

		// Rejected adjustment leaves the row untouched.
		total, err := stockDAO.GetTotal(ctx, "P5")
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("decrement of unknown product is rejected", func(t *testing.T) {
		err := stockDAO.AdjustTotal(ctx, "never-stocked", -1)
		assert.ErrorIs(t, err, dao.ErrInsufficientStock)
	})
}
