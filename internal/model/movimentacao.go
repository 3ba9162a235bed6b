package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MovEntrada       = "entrada"
	MovSaida         = "saida"
	MovTransferencia = "transferencia"
	MovVenda         = "venda"
)

// Movimentacao is the append-only audit log of stock changes. Rows are only
// ever inserted or deleted; Sequencia orders them per product.
type Movimentacao struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Tipo           string     `gorm:"type:varchar(20);not null;index"`
	ProdutoID      string     `gorm:"type:varchar(20);not null;index:idx_movimentacoes_produto_seq,priority:1"`
	Quantidade     int        `gorm:"not null"`
	LocalOrigemID  string     `gorm:"type:varchar(80);not null"`
	LocalDestinoID *string    `gorm:"type:varchar(80)"`
	Sequencia      int64      `gorm:"not null;index:idx_movimentacoes_produto_seq,priority:2"`
	Data           time.Time  `gorm:"not null;index"`
	UsuarioID      *uuid.UUID `gorm:"type:uuid"`
	Observacao     *string
}

// TableName overrides GORM's default pluralization (movimentacaos → movimentacoes).
func (Movimentacao) TableName() string { return "movimentacoes" }

func (m *Movimentacao) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Data.IsZero() {
		m.Data = time.Now()
	}
	return nil
}
