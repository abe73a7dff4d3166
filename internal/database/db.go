package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// predictionsDDL creates the audit table used by repository.PredictionRepo.
const predictionsDDL = `CREATE TABLE IF NOT EXISTS predictions (
  id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
  request_id        CHAR(36)        NOT NULL,
  label             VARCHAR(8)      NOT NULL,
  class             INT             NOT NULL,
  confidence        DECIMAL(3,2)    NOT NULL,
  text_length       INT UNSIGNED    NOT NULL,
  normalized_length INT UNSIGNED    NOT NULL,
  created_at        DATETIME(3)     NOT NULL,
  UNIQUE KEY uq_predictions_request (request_id),
  KEY idx_predictions_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the tables the service writes to when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, predictionsDDL); err != nil {
		return fmt.Errorf("create predictions table: %w", err)
	}
	return nil
}
