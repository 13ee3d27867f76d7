package persistence

import (
	"database/sql"

	"github.com/muhittincamdali/enterprise-security-framework/internal/config"
	"github.com/pkg/errors"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

// NewDB opens a connection pool against the configured PostgreSQL instance.
// The connection is not verified here; callers ping on startup.
func NewDB(cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
