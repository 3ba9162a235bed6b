package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecuperacaoSenha is a one-time password reset token.
type RecuperacaoSenha struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiraEm  time.Time `gorm:"not null"`
	Usado     bool      `gorm:"not null"`
	CriadoEm  time.Time `gorm:"autoCreateTime"`
}

func (RecuperacaoSenha) TableName() string { return "recuperacoes_senha" }

func (r *RecuperacaoSenha) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Valido reports whether the token can still be redeemed at instant t.
func (r *RecuperacaoSenha) Valido(t time.Time) bool {
	return !r.Usado && t.Before(r.ExpiraEm)
}
