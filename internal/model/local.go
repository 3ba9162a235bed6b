package model

import (
	"time"

	"github.com/google/uuid"
)

var TiposLocal = []string{"deposito", "prateleira", "vitrine", "reserva", "outro"}

// Local is a physical stock location. ID is a slug fixed at creation, so a
// rename never touches estoques, movimentacoes or vendas.
type Local struct {
	ID           string `gorm:"type:varchar(80);primaryKey"`
	Nome         string `gorm:"type:varchar(80);uniqueIndex;not null"`
	Descricao    *string
	Tipo         string     `gorm:"type:varchar(20);not null"`
	Ativo        bool       `gorm:"not null"`
	CriadoPor    *uuid.UUID `gorm:"type:uuid"`
	CriadoEm     time.Time  `gorm:"autoCreateTime"`
	AtualizadoEm time.Time  `gorm:"autoUpdateTime"`
}

// TableName overrides GORM's default pluralization (locals → locais).
func (Local) TableName() string { return "locais" }
