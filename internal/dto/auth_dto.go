package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=1"`
}

type RegistroRequest struct {
	Nome  string `json:"nome"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Senha string `json:"senha" validate:"required,min=6,max=72"`
}

type CriarUsuarioRequest struct {
	Nome  string `json:"nome"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Senha string `json:"senha" validate:"required,min=6,max=72"`
	Role  string `json:"role"  validate:"required,oneof=admin funcionario"`
}

type AtualizarUsuarioRequest struct {
	Nome  *string `json:"nome"  validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Role  *string `json:"role"  validate:"omitempty,oneof=admin funcionario"`
}

type AlterarSenhaRequest struct {
	SenhaAtual string `json:"senhaAtual"`
	NovaSenha  string `json:"novaSenha" validate:"required,min=6,max=72"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       string    `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	CriadoEm time.Time `json:"criadoEm"`
}

type LoginResponse struct {
	Token    string          `json:"token"`
	ExpiraEm time.Time       `json:"expiraEm"`
	Usuario  UsuarioResponse `json:"usuario"`
}
