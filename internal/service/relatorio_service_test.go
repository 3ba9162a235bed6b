package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
)

func diaLocal(offset int) time.Time {
	d := time.Now().AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
}

func (a *ambiente) vender(t *testing.T, produtoID, localID string, qtd int, quando time.Time) {
	t.Helper()
	_, err := a.vendas.Registrar(a.ctx, a.usuario, dto.RegistrarVendaRequest{
		ProdutoID: produtoID, Quantidade: qtd, LocalID: localID, DataVenda: &quando,
	})
	require.NoError(t, err)
}

func TestRelatorioDados_RankingEDias(t *testing.T) {
	a := novoAmbiente(t)
	loja := a.local(t, "Loja")
	alfa := a.produto(t, "Camiseta Alfa", loja, 100)
	beta := a.produto(t, "Camiseta Beta", loja, 100)
	gama := a.produto(t, "Camiseta Gama", loja, 100)

	a.vender(t, alfa, loja, 45, diaLocal(-3))
	a.vender(t, beta, loja, 38, diaLocal(-3))
	a.vender(t, gama, loja, 20, diaLocal(-1))
	a.vender(t, gama, loja, 5, diaLocal(-1))

	r, err := a.relatorios.Dados(a.ctx, dto.RelatorioFilter{
		DataInicio: diaLocal(-4).Format("2006-01-02"),
		DataFim:    diaLocal(-1).Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MetodoQuantidade, r.MetodoCalculo)

	require.Len(t, r.TopProdutos, 3)
	assert.Equal(t, alfa, r.TopProdutos[0].ProdutoID)
	assert.Equal(t, 1, r.TopProdutos[0].Posicao)
	assert.Equal(t, "41.67", r.TopProdutos[0].Percentual.StringFixed(2))
	assert.Equal(t, "35.18", r.TopProdutos[1].Percentual.StringFixed(2))
	assert.Equal(t, "23.15", r.TopProdutos[2].Percentual.StringFixed(2))
	assert.Equal(t, int64(2), r.TopProdutos[2].Transacoes)

	require.Len(t, r.VendasPorDia, 4)
	assert.Equal(t, dto.VendasDia{Data: diaLocal(-4).Format("2006-01-02")}, r.VendasPorDia[0])
	assert.Equal(t, int64(2), r.VendasPorDia[1].Transacoes)
	assert.Equal(t, int64(83), r.VendasPorDia[1].Quantidade)
	assert.Zero(t, r.VendasPorDia[2].Transacoes)
	assert.Equal(t, int64(25), r.VendasPorDia[3].Quantidade)

	assert.Equal(t, int64(4), r.Resumo.TotalVendas)
	assert.Equal(t, int64(108), r.Resumo.TotalUnidades)
	assert.Equal(t, int64(3), r.Resumo.ProdutosDistintos)
	assert.Equal(t, "27.00", r.Resumo.MediaDiaria.StringFixed(2))

	require.Len(t, r.VendasPorLocal, 1)
	assert.Equal(t, "Loja", r.VendasPorLocal[0].LocalNome)
	assert.Equal(t, "100.00", r.VendasPorLocal[0].Percentual.StringFixed(2))
}

func TestRelatorioDados_MetodoTransacoes(t *testing.T) {
	a := novoAmbiente(t)
	loja := a.local(t, "Loja")
	alfa := a.produto(t, "Camiseta Alfa", loja, 100)
	beta := a.produto(t, "Camiseta Beta", loja, 100)

	a.vender(t, alfa, loja, 50, diaLocal(-1))
	a.vender(t, beta, loja, 1, diaLocal(-1))
	a.vender(t, beta, loja, 1, diaLocal(-1))

	r, err := a.relatorios.Dados(a.ctx, dto.RelatorioFilter{
		DataInicio:    diaLocal(-1).Format("2006-01-02"),
		DataFim:       diaLocal(-1).Format("2006-01-02"),
		MetodoCalculo: dto.MetodoTransacoes,
	})
	require.NoError(t, err)
	require.Len(t, r.TopProdutos, 2)
	assert.Equal(t, beta, r.TopProdutos[0].ProdutoID)
	assert.Equal(t, "66.67", r.TopProdutos[0].Percentual.StringFixed(2))
}

func TestRelatorioDados_SemVendas(t *testing.T) {
	a := novoAmbiente(t)
	r, err := a.relatorios.Dados(a.ctx, dto.RelatorioFilter{DataInicio: "2024-01-01", DataFim: "2024-01-07"})
	require.NoError(t, err)
	assert.Empty(t, r.TopProdutos)
	assert.Len(t, r.VendasPorDia, 7)
	assert.True(t, r.Resumo.MediaDiaria.IsZero())
}

func TestRelatorioDados_ExigeDatas(t *testing.T) {
	a := novoAmbiente(t)
	_, err := a.relatorios.Dados(a.ctx, dto.RelatorioFilter{DataInicio: "2024-01-01"})
	requireCodigo(t, err, apierror.CodigoValidacao)

	_, err = a.relatorios.Dados(a.ctx, dto.RelatorioFilter{DataInicio: "2024-01-07", DataFim: "2024-01-01"})
	requireCodigo(t, err, apierror.CodigoValidacao)
}

func TestRelatorioDados_PeriodoMaximo(t *testing.T) {
	a := novoAmbiente(t)

	_, err := a.relatorios.Dados(a.ctx, dto.RelatorioFilter{DataInicio: "0001-01-01", DataFim: "9999-12-31"})
	requireCodigo(t, err, apierror.CodigoValidacao)

	// 2024 is a leap year: 367 days is one too many, 366 is accepted.
	_, err = a.relatorios.Dados(a.ctx, dto.RelatorioFilter{DataInicio: "2024-01-01", DataFim: "2025-01-01"})
	requireCodigo(t, err, apierror.CodigoValidacao)

	r, err := a.relatorios.Dados(a.ctx, dto.RelatorioFilter{DataInicio: "2024-01-01", DataFim: "2024-12-31"})
	require.NoError(t, err)
	assert.Len(t, r.VendasPorDia, 366)

	_, err = a.relatorios.PDFDados(a.ctx, dto.RelatorioFilter{DataInicio: "2000-01-01", DataFim: "2030-01-01"})
	requireCodigo(t, err, apierror.CodigoValidacao)
}

func TestRelatorioResumo_PeriodoPadrao(t *testing.T) {
	a := novoAmbiente(t)
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Alfa", loja, 8)
	a.vender(t, id, loja, 3, diaLocal(-2))

	r, err := a.relatorios.Resumo(a.ctx, dto.ResumoFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.TotalProdutos)
	assert.Equal(t, int64(5), r.TotalUnidades)
	assert.Equal(t, int64(1), r.TotalVendas)
	assert.Equal(t, int64(3), r.UnidadesVendidas)
	assert.Equal(t, int64(1), r.MovimentacoesPorTipo["venda"])
	require.Len(t, r.ProdutosEmAlerta, 1)
	assert.True(t, r.ProdutosEmAlerta[0].TemEstoqueCritico)
	assert.True(t, r.Periodo.Inicio.AddDate(0, 0, 29).Equal(r.Periodo.Fim), "periodo de 30 dias: %v", r.Periodo)
}

func TestRelatorioPDF(t *testing.T) {
	a := novoAmbiente(t)
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Alfa", loja, 8)
	a.vender(t, id, loja, 3, diaLocal(-1))

	pdf, err := a.relatorios.PDFDados(a.ctx, dto.RelatorioFilter{
		DataInicio: diaLocal(-7).Format("2006-01-02"),
		DataFim:    diaLocal(0).Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	pdf, err = a.relatorios.PDFResumo(a.ctx, dto.ResumoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
