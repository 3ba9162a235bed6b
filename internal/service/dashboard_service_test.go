package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"
)

func (a *ambiente) dashboard() DashboardService {
	return NewDashboardService(
		a.produtoRepo,
		a.estoqueRepo,
		a.movRepo,
		repository.NewVendaRepository(a.db),
		repository.NewLocalRepository(a.db),
		repository.NewRelatorioRepository(a.db),
		DefaultLimites(),
		nil,
		0,
	)
}

func TestDashboard_Metricas(t *testing.T) {
	a := novoAmbiente(t)
	loja := a.local(t, "Loja")
	a.local(t, "Depósito A")
	cheio := a.produto(t, "Camiseta Alfa", loja, 40)
	a.produto(t, "Camiseta Beta", loja, 3)
	a.produto(t, "Camiseta Gama", loja, 0)
	_, err := a.vendas.Registrar(a.ctx, a.usuario, dto.RegistrarVendaRequest{ProdutoID: cheio, Quantidade: 25, LocalID: loja})
	require.NoError(t, err)

	d := a.dashboard()
	m, err := d.Metricas(a.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.TotalProdutos)
	assert.Equal(t, int64(18), m.TotalUnidades)
	assert.Equal(t, int64(1), m.ProdutosEstoqueBaixo)
	assert.Equal(t, int64(1), m.ProdutosEstoqueCritico)
	assert.Equal(t, int64(1), m.ProdutosEstoqueZerado)
	assert.Equal(t, int64(1), m.VendasHoje)
	assert.Equal(t, int64(25), m.UnidadesVendidasHoje)
	assert.Equal(t, int64(2), m.TotalLocais)
	// two initial entradas + the sale
	assert.Equal(t, int64(3), m.MovimentacoesHoje)

	semana, err := d.VendasSemana(a.ctx)
	require.NoError(t, err)
	require.Len(t, semana, 7)
	assert.Equal(t, int64(25), semana[6].Quantidade)

	top, err := d.TopProdutos(a.ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, cheio, top[0].ProdutoID)

	baixo, err := d.EstoqueBaixo(a.ctx)
	require.NoError(t, err)
	assert.Len(t, baixo, 3)

	trans, err := d.Transacoes(a.ctx)
	require.NoError(t, err)
	assert.Len(t, trans, 3)

	cats, err := d.Categorias(a.ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, int64(3), cats[0].Produtos)
	assert.Equal(t, int64(18), cats[0].Unidades)
}
