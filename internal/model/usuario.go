package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin       = "admin"
	RoleFuncionario = "funcionario"
)

// Usuario stores system users with role-based access.
// Role: "admin" | "funcionario"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nome         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	SenhaHash    string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	CriadoEm     time.Time `gorm:"autoCreateTime"`
	AtualizadoEm time.Time `gorm:"autoUpdateTime"`
}

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *Usuario) IsAdmin() bool { return u.Role == RoleAdmin }
