package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/storefront/internal/platform/logger"
)

// kvEntry is one stored value. The pair (namespace, key) is unique.
type kvEntry struct {
	Namespace string         `gorm:"column:namespace;primaryKey;size:255"`
	Key       string         `gorm:"column:key;primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
}

func (kvEntry) TableName() string { return "kv_entries" }

type gormBackend struct {
	db  *gorm.DB
	log *logger.Logger
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}
}

// OpenSQLite opens (creating if needed) a sqlite file at path.
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (Backend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return newGormBackend(ctx, db, log)
}

func OpenPostgres(ctx context.Context, dsn string, log *logger.Logger) (Backend, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn required")
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newGormBackend(ctx, db, log)
}

// NewGormBackend wraps an already open database and migrates kv_entries.
func NewGormBackend(ctx context.Context, db *gorm.DB, log *logger.Logger) (Backend, error) {
	return newGormBackend(ctx, db, log)
}

func newGormBackend(ctx context.Context, db *gorm.DB, log *logger.Logger) (Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := db.WithContext(ctx).AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &gormBackend{db: db, log: log.With("repo", "KVEntryRepo", "dialect", db.Dialector.Name())}, nil
}

func (b *gormBackend) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var rows []kvEntry
	err := b.db.WithContext(ctx).
		Where(map[string]any{"namespace": namespace, "key": key}).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return []byte(rows[0].Value), true, nil
}

func (b *gormBackend) Put(ctx context.Context, namespace, key string, value []byte) error {
	row := &kvEntry{
		Namespace: namespace,
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	b.log.Debug("kv upsert", "key", key, "bytes", len(value))
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

func (b *gormBackend) Delete(ctx context.Context, namespace, key string) error {
	return b.db.WithContext(ctx).
		Where(map[string]any{"namespace": namespace, "key": key}).
		Delete(&kvEntry{}).Error
}

func (b *gormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
