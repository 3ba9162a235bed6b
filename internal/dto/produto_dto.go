package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome              string  `json:"nome"              validate:"required,min=2,max=120"`
	Tipo              string  `json:"tipo"              validate:"required,min=1,max=60"`
	Categoria         string  `json:"categoria"         validate:"required,min=1,max=60"`
	Subcategoria      string  `json:"subcategoria"      validate:"required,min=1,max=60"`
	Imagem            *string `json:"imagem"            validate:"omitempty,max=500"`
	LocalID           string  `json:"localId"           validate:"required"`
	QuantidadeInicial int     `json:"quantidadeInicial" validate:"min=0"`
}

type AtualizarProdutoRequest struct {
	Nome         *string `json:"nome"         validate:"omitempty,min=2,max=120"`
	Tipo         *string `json:"tipo"         validate:"omitempty,min=1,max=60"`
	Categoria    *string `json:"categoria"    validate:"omitempty,min=1,max=60"`
	Subcategoria *string `json:"subcategoria" validate:"omitempty,min=1,max=60"`
	Imagem       *string `json:"imagem"       validate:"omitempty,max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProdutoFilter struct {
	Busca        string `form:"busca"`
	Tipo         string `form:"tipo"`
	Categoria    string `form:"categoria"`
	Subcategoria string `form:"subcategoria"`
	Status       string `form:"status" validate:"omitempty,oneof=baixo critico zerado"`
	Paginacao
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID                string                 `json:"id"`
	Nome              string                 `json:"nome"`
	Tipo              string                 `json:"tipo"`
	Categoria         string                 `json:"categoria"`
	Subcategoria      string                 `json:"subcategoria"`
	Imagem            *string                `json:"imagem"`
	CriadoPor         *string                `json:"criadoPor"`
	CriadoEm          time.Time              `json:"criadoEm"`
	AtualizadoEm      time.Time              `json:"atualizadoEm"`
	TemEstoqueBaixo   bool                   `json:"temEstoqueBaixo"`
	TemEstoqueCritico bool                   `json:"temEstoqueCritico"`
	TemEstoqueZerado  bool                   `json:"temEstoqueZerado"`
	QuantidadeTotal   int64                  `json:"quantidadeTotal"`
	Estoques          []EstoqueLocalResponse `json:"estoques,omitempty"`
}

type ProdutoListResponse struct {
	Produtos []ProdutoResponse `json:"produtos"`
	PaginacaoResponse
}

type ZerarEstoqueResponse struct {
	ProdutoID          string `json:"produtoId"`
	LocaisZerados      int    `json:"locaisZerados"`
	QuantidadeRemovida int64  `json:"quantidadeRemovida"`
}

// CategoriaArvore groups the distinct type → category → subcategory values.
type CategoriaArvore struct {
	Tipo       string          `json:"tipo"`
	Categorias []CategoriaNode `json:"categorias"`
}

type CategoriaNode struct {
	Categoria     string   `json:"categoria"`
	Subcategorias []string `json:"subcategorias"`
}
