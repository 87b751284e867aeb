package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB renders SQL without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=stayhere dbname=stayhere sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestPostgresListQueryOrdersMissingKeysLast(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []documentRow
		return listQuery(tx, "destinations", Query{OrderBy: "properties", Direction: Desc, Limit: 6}).Find(&rows)
	})

	assert.Contains(t, sql, `FROM "documents"`)
	assert.Contains(t, sql, "collection = 'destinations'")
	assert.Contains(t, sql, "ORDER BY data -> 'properties' DESC NULLS LAST")
	assert.Contains(t, sql, "LIMIT 6")
}

func TestPostgresListQueryFilters(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []documentRow
		return listQuery(tx, "properties", Query{
			Filters: []Filter{{Field: "status", Value: "active"}},
		}).Find(&rows)
	})

	assert.Contains(t, sql, "json_extract_path_text")
	assert.Contains(t, sql, "'status'")
	assert.Contains(t, sql, "'active'")
	assert.Contains(t, sql, "ORDER BY id")
}

func TestPostgresUpdateQueryMergesJSON(t *testing.T) {
	db := dryRunDB(t)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return updateQuery(tx, "properties", "p1", map[string]interface{}{
			"price":     100,
			"updatedAt": ServerTimestamp,
		}, now)
	})

	assert.Contains(t, sql, `UPDATE "documents"`)
	assert.Contains(t, sql, `data || '{"price":100,"updatedAt":"2024-01-02T03:04:05Z"}'::jsonb`)
	assert.Contains(t, sql, "collection = 'properties' AND id = 'p1'")
}

func TestPostgresUpdateQueryRejectsUnencodableFields(t *testing.T) {
	db := dryRunDB(t)

	tx := updateQuery(db.Session(&gorm.Session{DryRun: true}), "properties", "p1", map[string]interface{}{
		"bad": make(chan int),
	}, time.Now())
	assert.ErrorContains(t, tx.Error, "could not encode update")
}
