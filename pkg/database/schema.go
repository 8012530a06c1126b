package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clientes (
		id       SERIAL PRIMARY KEY,
		nombre   VARCHAR(100) NOT NULL,
		apellido VARCHAR(100) NOT NULL DEFAULT '',
		email    VARCHAR(150) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS ingredientes (
		id       SERIAL PRIMARY KEY,
		nombre   VARCHAR(100) NOT NULL UNIQUE,
		unidad   VARCHAR(20),
		cantidad DECIMAL(10,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id         SERIAL PRIMARY KEY,
		nombre     VARCHAR(100) NOT NULL UNIQUE,
		precio     DECIMAL(10,2) NOT NULL,
		icono_path VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS menu_ingredientes (
		menu_id            INTEGER NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
		ingrediente_id     INTEGER NOT NULL REFERENCES ingredientes(id) ON DELETE CASCADE,
		cantidad_necesaria DECIMAL(10,2) NOT NULL,
		PRIMARY KEY (menu_id, ingrediente_id)
	)`,
	`CREATE TABLE IF NOT EXISTS pedidos (
		id           SERIAL PRIMARY KEY,
		cliente_id   INTEGER NOT NULL REFERENCES clientes(id),
		fecha        TIMESTAMPTZ NOT NULL DEFAULT now(),
		estado       VARCHAR(20) NOT NULL,
		tipo_entrega VARCHAR(20) NOT NULL,
		total        DECIMAL(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pedido_items (
		id              SERIAL PRIMARY KEY,
		pedido_id       INTEGER NOT NULL REFERENCES pedidos(id),
		menu_id         INTEGER NOT NULL REFERENCES menus(id),
		cantidad        INTEGER NOT NULL CHECK (cantidad > 0),
		precio_unitario DECIMAL(10,2) NOT NULL,
		subtotal        DECIMAL(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS boletas (
		id               SERIAL PRIMARY KEY,
		pedido_id        INTEGER NOT NULL UNIQUE REFERENCES pedidos(id) ON DELETE CASCADE,
		fecha_generacion TIMESTAMPTZ NOT NULL DEFAULT now(),
		subtotal         DECIMAL(10,2) NOT NULL,
		iva              DECIMAL(10,2) NOT NULL,
		total            DECIMAL(10,2) NOT NULL,
		pdf_path         VARCHAR(500) NOT NULL,
		estado           VARCHAR(20) NOT NULL
	)`,
}

// InitSchema creates the tables if they do not exist yet.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	db.logger.Info("Database schema ready", "tables", len(schema))
	return nil
}
