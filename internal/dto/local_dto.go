package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarLocalRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=80"`
	Descricao *string `json:"descricao" validate:"omitempty,max=255"`
	Tipo      string  `json:"tipo"      validate:"omitempty,oneof=deposito prateleira vitrine reserva outro"`
	Ativo     *bool   `json:"ativo"`
}

type AtualizarLocalRequest struct {
	Nome      *string `json:"nome"      validate:"omitempty,min=2,max=80"`
	Descricao *string `json:"descricao" validate:"omitempty,max=255"`
	Tipo      *string `json:"tipo"      validate:"omitempty,oneof=deposito prateleira vitrine reserva outro"`
	Ativo     *bool   `json:"ativo"`
}

type LocalFilter struct {
	Ativo string `form:"ativo"` // "true" | "false" | "" (todos)
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LocalResponse struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Descricao    *string   `json:"descricao"`
	Tipo         string    `json:"tipo"`
	Ativo        bool      `json:"ativo"`
	CriadoEm     time.Time `json:"criadoEm"`
	AtualizadoEm time.Time `json:"atualizadoEm"`
}

type LocalNome struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

type LocalTipo struct {
	Valor  string `json:"valor"`
	Rotulo string `json:"rotulo"`
}
