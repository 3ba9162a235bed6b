package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estoque is the quantity of one product at one location. It is the single
// source of truth for stock; every other count is derived from it.
type Estoque struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProdutoID         string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_estoques_produto_local,priority:1"`
	LocalID           string     `gorm:"type:varchar(80);not null;uniqueIndex:idx_estoques_produto_local,priority:2;index"`
	Quantidade        int        `gorm:"not null;check:chk_estoques_quantidade,quantidade >= 0"`
	UltimaAtualizacao time.Time  `gorm:"not null"`
	AtualizadoPor     *uuid.UUID `gorm:"type:uuid"`
	DataRegistro      time.Time  `gorm:"autoCreateTime"`
}

func (e *Estoque) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
