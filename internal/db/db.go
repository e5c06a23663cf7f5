// Package db holds the pgx-backed repositories for persistent state:
// accounts, per-mode stats and main menu icons.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB bundles the read and write connection pools. Account lookups go
// to the replica, stats and privilege writes to the primary.
type DB struct {
	Read  *pgxpool.Pool
	Write *pgxpool.Pool
}

// New connects both pools and verifies them.
func New(ctx context.Context, readDSN, writeDSN string) (*DB, error) {
	read, err := pgxpool.New(ctx, readDSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to read database: %w", err)
	}
	if err := read.Ping(ctx); err != nil {
		read.Close()
		return nil, fmt.Errorf("pinging read database: %w", err)
	}

	write, err := pgxpool.New(ctx, writeDSN)
	if err != nil {
		read.Close()
		return nil, fmt.Errorf("connecting to write database: %w", err)
	}
	if err := write.Ping(ctx); err != nil {
		read.Close()
		write.Close()
		return nil, fmt.Errorf("pinging write database: %w", err)
	}

	return &DB{Read: read, Write: write}, nil
}

// Close closes both connection pools.
func (d *DB) Close() {
	d.Read.Close()
	d.Write.Close()
}
