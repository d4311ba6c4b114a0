// Package db is the PostgreSQL persistence layer. It owns the rewrite
// mapping table and the account directory, and implements the collaborator
// interfaces consumed by the rewrite package.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corvomail/forwardd/logger"
	"github.com/corvomail/forwardd/pkg/metrics"
)

//go:embed schema.sql
var schema string

type Database struct {
	Pool *pgxpool.Pool
}

// NewDatabase opens a connection pool and applies the embedded schema.
func NewDatabase(ctx context.Context, host, port, user, password, dbname string, tlsMode bool, logQueries bool) (*Database, error) {
	sslMode := "disable"
	if tlsMode {
		sslMode = "require"
	}

	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslMode)

	logger.Info("DB: Connecting to database", "host", host, "port", port, "name", dbname, "sslmode", sslMode)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	if logQueries {
		config.ConnConfig.Tracer = &queryTracer{}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	db := &Database{Pool: pool}

	if err := db.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *Database) migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, schema)
	return err
}

// StartPoolMetrics starts a goroutine that periodically collects connection
// pool metrics until the context is cancelled.
func (db *Database) StartPoolMetrics(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := db.Pool.Stat()
				metrics.DBPoolTotalConns.Set(float64(stats.TotalConns()))
				metrics.DBPoolIdleConns.Set(float64(stats.IdleConns()))
				metrics.DBPoolInUseConns.Set(float64(stats.AcquiredConns()))
			}
		}
	}()
}

// timedQueryRow wraps QueryRow with duration and count metrics.
func (db *Database) timedQueryRow(ctx context.Context, operation string, sql string, args ...any) pgx.Row {
	start := time.Now()
	row := db.Pool.QueryRow(ctx, sql, args...)
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.DBQueriesTotal.WithLabelValues(operation, "success").Inc()
	return row
}

// timedQuery wraps Query with duration and count metrics.
func (db *Database) timedQuery(ctx context.Context, operation string, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.Pool.Query(ctx, sql, args...)
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DBQueriesTotal.WithLabelValues(operation, "failure").Inc()
	} else {
		metrics.DBQueriesTotal.WithLabelValues(operation, "success").Inc()
	}
	return rows, err
}

// timedExec wraps Exec with duration and count metrics and returns the number
// of affected rows.
func (db *Database) timedExec(ctx context.Context, operation string, sql string, args ...any) (int64, error) {
	start := time.Now()
	tag, err := db.Pool.Exec(ctx, sql, args...)
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DBQueriesTotal.WithLabelValues(operation, "failure").Inc()
		return 0, err
	}
	metrics.DBQueriesTotal.WithLabelValues(operation, "success").Inc()
	return tag.RowsAffected(), nil
}
