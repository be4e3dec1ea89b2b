package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a customer of the tenant. When FinanciamientoDisponible is set the
// customer may carry store credit up to LimiteFinanciamiento; the outstanding
// balance lives in FinanciamientoUsado and is only moved by the financing ledger.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre    string    `gorm:"index;not null"`
	Email     *string
	Telefono  *string
	RNC       *string `gorm:"type:varchar(20);column:rnc"`
	Direccion *string
	Notas     *string

	FinanciamientoDisponible bool            `gorm:"not null;default:false"`
	LimiteFinanciamiento     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinanciamientoUsado      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// TasaInteres is a percentage, informational only.
	TasaInteres decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FinanciamientoRestante returns how much credit is still available.
func (c *Cliente) FinanciamientoRestante() decimal.Decimal {
	if !c.FinanciamientoDisponible {
		return decimal.Zero
	}
	return c.LimiteFinanciamiento.Sub(c.FinanciamientoUsado)
}
