package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Venda is the sales-side record of a sale; MovimentacaoID links the
// "venda" movement written in the same transaction.
type Venda struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProdutoID      string     `gorm:"type:varchar(20);not null;index"`
	Quantidade     int        `gorm:"not null;check:chk_vendas_quantidade,quantidade >= 1"`
	LocalID        string     `gorm:"type:varchar(80);not null;index"`
	DataVenda      time.Time  `gorm:"not null;index"`
	UsuarioID      *uuid.UUID `gorm:"type:uuid"`
	MovimentacaoID *uuid.UUID `gorm:"type:uuid"`
}

func (v *Venda) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.DataVenda.IsZero() {
		v.DataVenda = time.Now()
	}
	return nil
}
