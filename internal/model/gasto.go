package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriasGasto is the fixed list of expense categories.
var CategoriasGasto = []string{
	"Servicios",
	"Suministros de Oficina",
	"Tecnología",
	"Marketing",
	"Transporte",
	"Alimentos",
	"Servicios Profesionales",
	"Seguros",
	"Alquiler",
	"Servicios Públicos",
	"Nómina",
	"Impuestos",
	"Mantenimiento",
	"Otro",
}

// EsCategoriaGasto reports whether cat is one of CategoriasGasto.
func EsCategoriaGasto(cat string) bool {
	for _, c := range CategoriasGasto {
		if c == cat {
			return true
		}
	}
	return false
}

type Gasto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Categoria   string          `gorm:"type:varchar(50);not null;index"`
	Descripcion string          `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha       time.Time       `gorm:"type:date;not null;index"`
	MetodoPago  *string         `gorm:"type:varchar(30)"`
	ReciboURL   *string
	Notas       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
