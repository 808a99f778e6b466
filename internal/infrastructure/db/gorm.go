package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool sizes the connection pool of a token store.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

var (
	// MySQLPool is shared by every web node writing tokens.
	MySQLPool = Pool{MaxOpen: 20, MaxIdle: 5, MaxLifetime: 30 * time.Minute, MaxIdleTime: 10 * time.Minute}
	// SQLitePool keeps a single writer; sqlite locks the whole file.
	SQLitePool = Pool{MaxOpen: 1, MaxIdle: 1}
)

// OpenMySQL connects the shared token store.
func OpenMySQL(ctx context.Context, dsn string) (*gorm.DB, error) {
	return Open(ctx, mysql.Open(dsn), MySQLPool)
}

// OpenSQLite opens (or creates) the single-node token store at path.
func OpenSQLite(ctx context.Context, path string) (*gorm.DB, error) {
	return Open(ctx, sqlite.Open(path), SQLitePool)
}

func Open(ctx context.Context, dial gorm.Dialector, p Pool) (*gorm.DB, error) {
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dial.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(p.MaxOpen)
	sqlDB.SetMaxIdleConns(p.MaxIdle)
	sqlDB.SetConnMaxLifetime(p.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(p.MaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dial.Name(), err)
	}
	zap.L().Info("token store connected", zap.String("dialect", dial.Name()), zap.Int("max_open", p.MaxOpen))
	return db, nil
}
