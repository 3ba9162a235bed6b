package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction; returning an error rolls it back.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// LimitesEstoque are the quantity thresholds behind the stock flags:
// [1, Critico) is critical and [Critico, Baixo) is low.
type LimitesEstoque struct {
	Critico int
	Baixo   int
}

func DefaultLimites() LimitesEstoque { return LimitesEstoque{Critico: 10, Baixo: 20} }

// Status classifies a single quantity: zerado, critico, baixo or normal.
func (l LimitesEstoque) Status(qtd int) string {
	switch {
	case qtd <= 0:
		return "zerado"
	case qtd < l.Critico:
		return "critico"
	case qtd < l.Baixo:
		return "baixo"
	default:
		return "normal"
	}
}
