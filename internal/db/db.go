// Package db holds the Postgres pool shared by the love map repositories.
package db

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout = 5 * time.Second

	maxConns        = 4
	connMaxLifetime = time.Hour
	connMaxIdleTime = 10 * time.Minute
)

type DB struct {
	pool *pgxpool.Pool
}

// New connects to dsn and fails fast when the server does not answer.
func New(dsn string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnLifetime = connMaxLifetime
	poolCfg.MaxConnIdleTime = connMaxIdleTime
	// pgbouncer in transaction mode cannot hold prepared statements
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Printf("[DB]: connected to %s/%s", poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Database)
	return &DB{pool: pool}, nil
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping reports whether the database still answers.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// RunInTx runs fn in a transaction that is committed when fn returns nil
// and rolled back otherwise.
func (db *DB) RunInTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db.pool, fn)
}

func (db *DB) Close() {
	db.pool.Close()
}

// Migrate creates the users, places and messages tables when missing.
func (db *DB) Migrate(ctx context.Context) error {
	err := db.RunInTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		log.Println("[DB]: schema ready")
	}
	return err
}
