package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/GoSim-25-26J-441/project-sync/config"
)

// Conn is an open remote-store connection. With the pgx driver the *sql.DB
// sits on top of a pgxpool that is closed with it.
type Conn struct {
	DB   *sql.DB
	pool *pgxpool.Pool
}

func (c *Conn) Close() error {
	err := c.DB.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

// NewConnection opens the pool and fails unless the database answers a ping.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Conn, error) {
	conn, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Open builds the pool without contacting the server. Connections are
// dialled on first use, so a database that is down at startup can still be
// reached once it comes back.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Conn, error) {
	dsn := DSN(cfg)

	switch cfg.Driver {
	case config.DriverPgx:
		pool, err := openPool(ctx, dsn, cfg)
		if err != nil {
			return nil, err
		}
		return &Conn{DB: stdlib.OpenDBFromPool(pool), pool: pool}, nil
	default:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(max(cfg.MaxConns, 1))
		db.SetMaxIdleConns(max(cfg.MinConns, 1))
		db.SetConnMaxIdleTime(5 * time.Minute)
		return &Conn{DB: db}, nil
	}
}

// Ping checks the server with a short timeout.
func (c *Conn) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func openPool(ctx context.Context, dsn string, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pcfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return pool, nil
}
