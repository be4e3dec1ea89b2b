package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item. Stock is only touched when ControlarInventario
// is enabled, and it is allowed to go negative (overselling is recorded, not blocked).
type Producto struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre              string    `gorm:"index;not null"`
	Descripcion         *string
	SKU                 *string          `gorm:"type:varchar(64);column:sku"`
	Categoria           *string          `gorm:"type:varchar(100)"`
	Precio              decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Costo               *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ControlarInventario bool             `gorm:"not null;default:false"`
	StockActual         int              `gorm:"not null;default:0"`
	StockMinimo         int              `gorm:"not null;default:5"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BajoStock reports whether a tracked product is at or below its minimum.
func (p *Producto) BajoStock() bool {
	return p.ControlarInventario && p.StockActual <= p.StockMinimo
}
