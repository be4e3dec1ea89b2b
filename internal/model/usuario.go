package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is the owner of a business account. Every other record is scoped
// to exactly one Usuario (the tenant).
type Usuario struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email         string    `gorm:"uniqueIndex;not null"`
	NombreNegocio string    `gorm:"not null"`
	RNC           *string   `gorm:"type:varchar(20);column:rnc"`
	Telefono      *string
	Direccion     *string
	PasswordHash  string `gorm:"not null"`
	Activo        bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
