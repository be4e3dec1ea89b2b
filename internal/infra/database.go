package infra

import (
	"fmt"

	"facturapp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date (see RunMigrations).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table through AutoMigrate and then
// applies the patches GORM cannot express. Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Factura{},
		&model.FacturaItem{},
		&model.SecuenciaFactura{},
		&model.Pago{},
		&model.PagoFinanciamiento{},
		&model.Gasto{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// handle: check constraints, partial indexes and the counter backfill.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"check pagos.monto > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pagos_monto_positivo') THEN
    ALTER TABLE pagos ADD CONSTRAINT chk_pagos_monto_positivo CHECK (monto > 0);
  END IF;
END $$`},
		{"check factura_items.cantidad > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_factura_items_cantidad') THEN
    ALTER TABLE factura_items ADD CONSTRAINT chk_factura_items_cantidad
      CHECK (cantidad > 0 AND precio_unitario >= 0);
  END IF;
END $$`},
		{"check facturas.estado", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_facturas_estado') THEN
    ALTER TABLE facturas ADD CONSTRAINT chk_facturas_estado
      CHECK (estado IN ('draft', 'sent', 'paid', 'overdue', 'cancelled'));
  END IF;
END $$`},
		// partial index for the overdue cron query
		{"idx_facturas_vencibles",
			`CREATE INDEX IF NOT EXISTS idx_facturas_vencibles
			   ON facturas (fecha_vencimiento)
			   WHERE estado = 'sent' AND fecha_vencimiento IS NOT NULL`},
		// tenants that already had invoices before the counter table existed
		{"backfill secuencias_factura", `
INSERT INTO secuencias_factura (usuario_id, ultimo_valor)
SELECT usuario_id, MAX(CAST(SUBSTRING(numero FROM '[0-9]+$') AS BIGINT))
FROM facturas
WHERE numero ~ '[0-9]+$'
GROUP BY usuario_id
ON CONFLICT (usuario_id) DO NOTHING`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
