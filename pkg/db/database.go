package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPGX = "pgx"
	DriverPQ  = "pq"

	sqlitePrefix = "sqlite://"
)

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, sqlitePrefix) || strings.HasPrefix(dsn, "file:") || dsn == ":memory:"
}

func dialector(driver, dsn string) gorm.Dialector {
	if IsSQLite(dsn) {
		return sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	}
	if driver == DriverPQ {
		// lib/pq registers itself as "postgres" with database/sql.
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	}
	return postgres.Open(dsn)
}

func Open(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	sqliteDB := IsSQLite(dsn)

	db, err := gorm.Open(dialector(driver, dsn), &gorm.Config{
		PrepareStmt: !sqliteDB,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if sqliteDB {
		// sqlite has a single writer; one connection keeps transactions serialized.
		sqlDB.SetMaxOpenConns(1)
	} else {
		configurePool(sqlDB)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
