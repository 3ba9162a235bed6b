package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimentacaoRequest struct {
	Tipo           string `json:"tipo"           validate:"required,oneof=entrada saida transferencia venda"`
	ProdutoID      string `json:"produtoId"      validate:"required"`
	Quantidade     int    `json:"quantidade"     validate:"required,min=1"`
	LocalOrigemID  string `json:"localOrigemId"  validate:"required"`
	LocalDestinoID string `json:"localDestinoId" validate:"required_if=Tipo transferencia"`
	Observacao     string `json:"observacao"     validate:"max=500"`
}

type TransferirRequest struct {
	ProdutoID      string `json:"produtoId"      validate:"required"`
	Quantidade     int    `json:"quantidade"     validate:"required,min=1"`
	LocalOrigemID  string `json:"localOrigemId"  validate:"required"`
	LocalDestinoID string `json:"localDestinoId" validate:"required"`
	Observacao     string `json:"observacao"     validate:"max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovimentacaoFilter struct {
	ProdutoID  string `form:"produtoId"`
	Tipo       string `form:"tipo" validate:"omitempty,oneof=entrada saida transferencia venda"`
	LocalID    string `form:"localId"`
	DataInicio string `form:"dataInicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `form:"dataFim"    validate:"omitempty,datetime=2006-01-02"`
	Paginacao
}

type LimpezaQuery struct {
	Preview bool `form:"preview"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentacaoResponse struct {
	ID               string    `json:"id"`
	Tipo             string    `json:"tipo"`
	ProdutoID        string    `json:"produtoId"`
	ProdutoNome      string    `json:"produtoNome"`
	Quantidade       int       `json:"quantidade"`
	LocalOrigemID    string    `json:"localOrigemId"`
	LocalOrigemNome  string    `json:"localOrigemNome"`
	LocalDestinoID   *string   `json:"localDestinoId,omitempty"`
	LocalDestinoNome *string   `json:"localDestinoNome,omitempty"`
	Sequencia        int64     `json:"sequencia"`
	Data             time.Time `json:"data"`
	UsuarioID        *string   `json:"usuarioId"`
	UsuarioNome      *string   `json:"usuarioNome"`
	Observacao       *string   `json:"observacao"`
	VendaID          *string   `json:"vendaId,omitempty"`
}

type MovimentacaoListResponse struct {
	Movimentacoes []MovimentacaoResponse `json:"movimentacoes"`
	PaginacaoResponse
}
