package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarVendaRequest struct {
	ProdutoID  string     `json:"produtoId"  validate:"required"`
	Quantidade int        `json:"quantidade" validate:"required,min=1"`
	LocalID    string     `json:"localId"    validate:"required"`
	DataVenda  *time.Time `json:"dataVenda"`
	Observacao string     `json:"observacao" validate:"max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type VendaFilter struct {
	ProdutoID  string `form:"produtoId"`
	LocalID    string `form:"localId"`
	DataInicio string `form:"dataInicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `form:"dataFim"    validate:"omitempty,datetime=2006-01-02"`
	Paginacao
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VendaResponse struct {
	ID             string    `json:"id"`
	ProdutoID      string    `json:"produtoId"`
	ProdutoNome    string    `json:"produtoNome"`
	Quantidade     int       `json:"quantidade"`
	LocalID        string    `json:"localId"`
	LocalNome      string    `json:"localNome"`
	DataVenda      time.Time `json:"dataVenda"`
	UsuarioID      *string   `json:"usuarioId"`
	UsuarioNome    *string   `json:"usuarioNome"`
	MovimentacaoID *string   `json:"movimentacaoId"`
}

type VendaListResponse struct {
	Vendas []VendaResponse `json:"vendas"`
	PaginacaoResponse
}

type HistoricoVendasResponse struct {
	Vendas        []VendaResponse `json:"vendas"`
	TotalVendas   int64           `json:"totalVendas"`
	TotalUnidades int64           `json:"totalUnidades"`
	PaginacaoResponse
}
