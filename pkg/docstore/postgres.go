package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow stores every collection in one JSONB table.
type documentRow struct {
	Collection string            `gorm:"primaryKey;size:64"`
	ID         string            `gorm:"primaryKey;size:64"`
	Data       datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Models returns the tables this store needs migrated.
func (s *PostgresStore) Models() []interface{} {
	return []interface{}{&documentRow{}}
}

func (s *PostgresStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	tx := listQuery(s.db.WithContext(ctx), collection, q)

	var rows []documentRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{ID: row.ID, Data: map[string]interface{}(row.Data)})
	}
	return docs, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document{ID: row.ID, Data: map[string]interface{}(row.Data)}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	row := documentRow{
		Collection: collection,
		ID:         uuid.NewString(),
		Data:       datatypes.JSONMap(resolveTimestamps(data, time.Now().UTC())),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	row := documentRow{
		Collection: collection,
		ID:         id,
		Data:       datatypes.JSONMap(resolveTimestamps(data, time.Now().UTC())),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}

func listQuery(tx *gorm.DB, collection string, q Query) *gorm.DB {
	tx = tx.Where("collection = ?", collection)
	for _, f := range q.Filters {
		tx = tx.Where(datatypes.JSONQuery("data").Equals(f.Value, f.Field))
	}
	if q.OrderBy != "" {
		// jsonb ordering compares numbers numerically and strings lexically.
		// Missing keys sort last in both directions, as in the other drivers.
		sql := "data -> ? ASC NULLS LAST"
		if q.Direction == Desc {
			sql = "data -> ? DESC NULLS LAST"
		}
		tx = tx.Order(clause.OrderBy{Expression: clause.Expr{SQL: sql, Vars: []interface{}{q.OrderBy}}})
	} else {
		tx = tx.Order("id")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}

// Update merges fields into the stored object in a single statement so
// concurrent writers only overwrite the keys they touch.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	result := updateQuery(s.db.WithContext(ctx), collection, id, fields, time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func updateQuery(tx *gorm.DB, collection, id string, fields map[string]interface{}, now time.Time) *gorm.DB {
	patch, err := json.Marshal(resolveTimestamps(fields, now))
	if err != nil {
		tx.AddError(fmt.Errorf("could not encode update: %w", err))
		return tx
	}

	return tx.
		Model(&documentRow{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       gorm.Expr("data || ?::jsonb", string(patch)),
			"updated_at": now,
		})
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{}).Error
}

// Close is a no-op; the *gorm.DB belongs to the caller.
func (s *PostgresStore) Close() error {
	return nil
}
