package dto

import "time"

type VerificarEstoqueQuery struct {
	ProdutoID  string `form:"produtoId"  validate:"required"`
	LocalID    string `form:"localId"    validate:"required"`
	Quantidade int    `form:"quantidade" validate:"required,min=1"`
}

type EstoqueFilter struct {
	ProdutoID string `form:"produtoId"`
	LocalID   string `form:"localId"`
	Status    string `form:"status" validate:"omitempty,oneof=baixo critico zerado"`
	Paginacao
}

type DisponibilidadeResponse struct {
	Disponivel           bool   `json:"disponivel"`
	QuantidadeAtual      int    `json:"quantidadeAtual"`
	QuantidadeSolicitada int    `json:"quantidadeSolicitada"`
	Mensagem             string `json:"mensagem"`
}

type EstoqueLocalResponse struct {
	LocalID           string    `json:"localId"`
	LocalNome         string    `json:"localNome"`
	Quantidade        int       `json:"quantidade"`
	UltimaAtualizacao time.Time `json:"ultimaAtualizacao"`
}

type EstoqueResponse struct {
	ID                string    `json:"id"`
	ProdutoID         string    `json:"produtoId"`
	ProdutoNome       string    `json:"produtoNome"`
	LocalID           string    `json:"localId"`
	LocalNome         string    `json:"localNome"`
	Quantidade        int       `json:"quantidade"`
	Status            string    `json:"status"` // normal | baixo | critico | zerado
	UltimaAtualizacao time.Time `json:"ultimaAtualizacao"`
}

type EstoqueListResponse struct {
	Estoques []EstoqueResponse `json:"estoques"`
	PaginacaoResponse
}

type EstoqueProdutoResponse struct {
	ProdutoID       string                 `json:"produtoId"`
	ProdutoNome     string                 `json:"produtoNome"`
	QuantidadeTotal int64                  `json:"quantidadeTotal"`
	Locais          []EstoqueLocalResponse `json:"locais"`
}

// FlagsResultado reports a per-product recomputation. Erro is set, instead of
// returning an error, when the product no longer exists.
type FlagsResultado struct {
	ProdutoID         string `json:"produtoId"`
	TemEstoqueBaixo   bool   `json:"temEstoqueBaixo"`
	TemEstoqueCritico bool   `json:"temEstoqueCritico"`
	TemEstoqueZerado  bool   `json:"temEstoqueZerado"`
	Erro              string `json:"erro,omitempty"`
}

type FlagsGlobalResultado struct {
	ProdutosZerados  int           `json:"produtosZerados"`
	ProdutosCriticos int           `json:"produtosCriticos"`
	ProdutosBaixos   int           `json:"produtosBaixos"`
	Duracao          time.Duration `json:"duracao"`
}
