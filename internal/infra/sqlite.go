package infra

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umalmyha/customers/internal/config"
	"github.com/umalmyha/customers/internal/repository"
)

// Sqlite opens sqlite database file and creates customers table if needed
func Sqlite(ctx context.Context, cfg config.SqliteCfg) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database - %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("didn't get response from sqlite database - %w", err)
	}

	if err := repository.EnsureSqliteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
