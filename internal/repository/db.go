package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"perf-manage/internal/model"
)

// DefaultDSN keeps every store in memory; nothing survives a restart.
const DefaultDSN = "file:perfmanage?mode=memory&cache=shared"

// NewDB opens a SQLite database, runs migrations and loads the static team roster.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if isMemoryDSN(dsn) {
		// A shared-cache memory database lives as long as one connection does
		// and locks tables across connections, so pin it to a single one.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.Submission{},
		&model.TeamMember{},
		&model.AssignedTask{},
		&model.Assignee{},
		&model.KPI{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedMembers(context.Background(), db); err != nil {
		return nil, err
	}

	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func seedMembers(ctx context.Context, db *gorm.DB) error {
	for _, m := range SeedMembers() {
		if err := db.WithContext(ctx).Where(model.TeamMember{ID: m.ID}).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("seed team member %d: %w", m.ID, err)
		}
	}
	return nil
}

// uniqueID returns id, or the next free id above it, within the owner's rows of table.
func uniqueID(tx *gorm.DB, table interface{}, ownerID uint, id int64) (int64, error) {
	for {
		var n int64
		if err := tx.Model(table).Where("owner_id = ? AND id = ?", ownerID, id).Count(&n).Error; err != nil {
			return 0, fmt.Errorf("check id %d: %w", id, err)
		}
		if n == 0 {
			return id, nil
		}
		id++
	}
}

// replaceOwned drops every row of table owned by ownerID and inserts rows.
func replaceOwned(ctx context.Context, db *gorm.DB, table interface{}, ownerID uint, rows interface{}, n int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", ownerID).Delete(table).Error; err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
		if n == 0 {
			return nil
		}
		if err := tx.Create(rows).Error; err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		return nil
	})
}
