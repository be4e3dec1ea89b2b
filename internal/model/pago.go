package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pago is a (possibly partial) payment against an invoice.
type Pago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha      time.Time       `gorm:"type:date;not null"`
	Metodo     string          `gorm:"type:varchar(30);not null"`
	Referencia *string
	Notas      *string
	CreatedAt  time.Time
}

// PagoFinanciamiento is a payment against a customer's financing balance.
// FacturaID is set when the abono was triggered by an invoice payment.
type PagoFinanciamiento struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	FacturaID  *uuid.UUID      `gorm:"type:uuid;index"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha      time.Time       `gorm:"type:date;not null"`
	Metodo     string          `gorm:"type:varchar(30);not null"`
	Referencia *string
	Notas      *string
	CreatedAt  time.Time
}

func (PagoFinanciamiento) TableName() string { return "pagos_financiamiento" }
