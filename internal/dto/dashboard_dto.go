package dto

type DashboardMetricas struct {
	TotalProdutos          int64 `json:"totalProdutos"`
	TotalUnidades          int64 `json:"totalUnidades"`
	ProdutosEstoqueBaixo   int64 `json:"produtosEstoqueBaixo"`
	ProdutosEstoqueCritico int64 `json:"produtosEstoqueCritico"`
	ProdutosEstoqueZerado  int64 `json:"produtosEstoqueZerado"`
	VendasHoje             int64 `json:"vendasHoje"`
	UnidadesVendidasHoje   int64 `json:"unidadesVendidasHoje"`
	VendasMes              int64 `json:"vendasMes"`
	UnidadesVendidasMes    int64 `json:"unidadesVendidasMes"`
	MovimentacoesHoje      int64 `json:"movimentacoesHoje"`
	TotalLocais            int64 `json:"totalLocais"`
}

type CategoriaResumo struct {
	Categoria string `json:"categoria"`
	Produtos  int64  `json:"produtos"`
	Unidades  int64  `json:"unidades"`
}
