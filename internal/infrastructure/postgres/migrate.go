package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema DDL idempotente; se aplica al arranque.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS brands (
		id UUID PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		brand_id UUID REFERENCES brands(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id),
		kind TEXT NOT NULL CHECK (kind IN ('load', 'unload')),
		quantity NUMERIC(14,2) NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(14,2),
		total_value NUMERIC(14,2) NOT NULL,
		business_date DATE NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL,
		document_ref TEXT,
		counterparty_ref TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS lots (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id),
		movement_id UUID,
		initial_qty NUMERIC(14,2) NOT NULL CHECK (initial_qty > 0),
		remaining_qty NUMERIC(14,2) NOT NULL CHECK (remaining_qty >= 0 AND remaining_qty <= initial_qty),
		unit_cost NUMERIC(14,2) NOT NULL CHECK (unit_cost > 0),
		load_date DATE NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL,
		document_ref TEXT,
		counterparty_ref TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS lot_consumptions (
		movement_id UUID NOT NULL,
		lot_id UUID NOT NULL REFERENCES lots(id),
		quantity NUMERIC(14,2) NOT NULL CHECK (quantity > 0),
		unit_cost NUMERIC(14,2) NOT NULL,
		PRIMARY KEY (movement_id, lot_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lots_fifo ON lots (product_id, load_date, registered_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product ON movements (product_id, business_date)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_registered ON movements (registered_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_consumptions_movement ON lot_consumptions (movement_id)`,
}

// Migrate crea las tablas e índices si no existen (el sistema de origen hacía el
// DDL al arranque; se conserva ese contrato operativo).
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("aplicar schema: %w", err)
		}
	}
	return nil
}
