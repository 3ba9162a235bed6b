package model

import (
	"time"

	"github.com/google/uuid"
)

// Produto is identified by a generated code (see produtoService.GerarCodigoProduto).
// The three TemEstoque* flags are a cache over the estoques rows and are
// rewritten whenever a movement touches the product.
type Produto struct {
	ID                string `gorm:"type:varchar(20);primaryKey"`
	Nome              string `gorm:"type:varchar(120);not null;index"`
	Tipo              string `gorm:"type:varchar(60);not null;index"`
	Categoria         string `gorm:"type:varchar(60);not null;index"`
	Subcategoria      string `gorm:"type:varchar(60);not null"`
	Imagem            *string
	CriadoPor         *uuid.UUID `gorm:"type:uuid"`
	TemEstoqueBaixo   bool       `gorm:"not null"`
	TemEstoqueCritico bool       `gorm:"not null"`
	TemEstoqueZerado  bool       `gorm:"not null"`
	// UltimaSequencia is the last movement sequence number allocated for this product.
	UltimaSequencia int64     `gorm:"not null"`
	CriadoEm        time.Time `gorm:"autoCreateTime"`
	AtualizadoEm    time.Time `gorm:"autoUpdateTime"`
}
