package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MetodoTransacoes = "transacoes"
	MetodoQuantidade = "quantidade"
)

// ─── Filters ─────────────────────────────────────────────────────────────────

// ResumoFilter backs the v1 summary; both dates are optional.
type ResumoFilter struct {
	DataInicio string `form:"dataInicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `form:"dataFim"    validate:"omitempty,datetime=2006-01-02"`
}

type RelatorioFilter struct {
	DataInicio    string `form:"dataInicio"    json:"dataInicio"              validate:"required,datetime=2006-01-02"`
	DataFim       string `form:"dataFim"       json:"dataFim"                 validate:"required,datetime=2006-01-02"`
	Tipo          string `form:"tipo"          json:"tipo,omitempty"`
	Categoria     string `form:"categoria"     json:"categoria,omitempty"`
	Subcategoria  string `form:"subcategoria"  json:"subcategoria,omitempty"`
	Local         string `form:"local"         json:"local,omitempty"`
	MetodoCalculo string `form:"metodoCalculo" json:"metodoCalculo,omitempty" validate:"omitempty,oneof=transacoes quantidade"`
}

// ─── v1 ──────────────────────────────────────────────────────────────────────

type RelatorioResumo struct {
	Periodo              Periodo           `json:"periodo"`
	TotalProdutos        int64             `json:"totalProdutos"`
	TotalUnidades        int64             `json:"totalUnidades"`
	TotalVendas          int64             `json:"totalVendas"`
	UnidadesVendidas     int64             `json:"unidadesVendidas"`
	MovimentacoesPorTipo map[string]int64  `json:"movimentacoesPorTipo"`
	ProdutosEmAlerta     []ProdutoResponse `json:"produtosEmAlerta"`
}

type Periodo struct {
	Inicio time.Time `json:"inicio"`
	Fim    time.Time `json:"fim"`
}

// ─── v2 ──────────────────────────────────────────────────────────────────────

type RelatorioDados struct {
	Periodo            Periodo            `json:"periodo"`
	MetodoCalculo      string             `json:"metodoCalculo"`
	Filtros            RelatorioFilter    `json:"filtros"`
	Resumo             ResumoVendas       `json:"resumo"`
	TopProdutos        []RankingProduto   `json:"topProdutos"`
	VendasPorDia       []VendasDia        `json:"vendasPorDia"`
	VendasPorCategoria []RankingCategoria `json:"vendasPorCategoria"`
	VendasPorLocal     []RankingLocal     `json:"vendasPorLocal"`
}

type ResumoVendas struct {
	TotalVendas       int64           `json:"totalVendas"`
	TotalUnidades     int64           `json:"totalUnidades"`
	ProdutosDistintos int64           `json:"produtosDistintos"`
	MediaDiaria       decimal.Decimal `json:"mediaDiaria"`
}

type RankingProduto struct {
	Posicao    int             `json:"posicao"`
	ProdutoID  string          `json:"produtoId"`
	Nome       string          `json:"nome"`
	Categoria  string          `json:"categoria"`
	Transacoes int64           `json:"transacoes"`
	Quantidade int64           `json:"quantidade"`
	Percentual decimal.Decimal `json:"percentual"`
}

type VendasDia struct {
	Data       string `json:"data"` // YYYY-MM-DD
	Transacoes int64  `json:"transacoes"`
	Quantidade int64  `json:"quantidade"`
}

type RankingCategoria struct {
	Categoria  string          `json:"categoria"`
	Transacoes int64           `json:"transacoes"`
	Quantidade int64           `json:"quantidade"`
	Percentual decimal.Decimal `json:"percentual"`
}

type RankingLocal struct {
	LocalID    string          `json:"localId"`
	LocalNome  string          `json:"localNome"`
	Transacoes int64           `json:"transacoes"`
	Quantidade int64           `json:"quantidade"`
	Percentual decimal.Decimal `json:"percentual"`
}
