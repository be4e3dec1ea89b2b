package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoFactura is the lifecycle status of an invoice.
type EstadoFactura string

const (
	EstadoBorrador  EstadoFactura = "draft"
	EstadoEnviada   EstadoFactura = "sent"
	EstadoPagada    EstadoFactura = "paid"
	EstadoVencida   EstadoFactura = "overdue"
	EstadoCancelada EstadoFactura = "cancelled"
)

// EstadosFactura lists every valid status, in lifecycle order.
var EstadosFactura = []EstadoFactura{
	EstadoBorrador, EstadoEnviada, EstadoPagada, EstadoVencida, EstadoCancelada,
}

// Valido reports whether e is a known status.
func (e EstadoFactura) Valido() bool {
	for _, v := range EstadosFactura {
		if v == e {
			return true
		}
	}
	return false
}

// GeneraDeuda reports whether an invoice in this status counts against the
// customer's financing. Only drafts are excluded.
func (e EstadoFactura) GeneraDeuda() bool { return e != EstadoBorrador }

// Factura is an invoice issued by a tenant. ClienteID is optional: walk-in
// invoices only carry NombreCliente.
type Factura struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_facturas_usuario_numero"`
	ClienteID        *uuid.UUID      `gorm:"type:uuid;index"`
	NombreCliente    string          `gorm:"not null"`
	Numero           string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_facturas_usuario_numero"`
	FechaEmision     time.Time       `gorm:"type:date;not null"`
	FechaVencimiento *time.Time      `gorm:"type:date"`
	Estado           EstadoFactura   `gorm:"type:varchar(20);not null;default:'draft';index"`
	AplicarITBIS     bool            `gorm:"not null;default:true;column:aplicar_itbis"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ITBIS            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:itbis"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notas            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items   []FacturaItem `gorm:"foreignKey:FacturaID"`
	Cliente *Cliente      `gorm:"foreignKey:ClienteID;constraint:OnDelete:SET NULL"`
}

// FacturaItem is one invoice line. ProductoID is nullable so free-text lines
// and lines whose product was deleted are both representable.
type FacturaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid;index"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:SET NULL"`
}

func (FacturaItem) TableName() string { return "factura_items" }

// SecuenciaFactura holds the last invoice number handed out to a tenant.
type SecuenciaFactura struct {
	UsuarioID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UltimoValor int64     `gorm:"not null;default:0"`
}

func (SecuenciaFactura) TableName() string { return "secuencias_factura" }

// FormatearNumero renders a sequence value as an invoice number (INV-0001).
func FormatearNumero(n int64) string {
	return fmt.Sprintf("INV-%04d", n)
}
