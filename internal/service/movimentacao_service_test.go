package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

func TestTransferencia_PreservaSoma(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Básica Azul", dep, 50)

	a.movimentar(t, model.MovTransferencia, id, dep, loja, 20)

	assert.Equal(t, 30, a.qtd(t, id, dep))
	assert.Equal(t, 20, a.qtd(t, id, loja))
	assert.Equal(t, 50, a.qtd(t, id, dep)+a.qtd(t, id, loja))
}

func TestTransferencia_OrigemInsuficienteNaoAlteraNada(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Básica Azul", dep, 5)

	_, err := a.movs.Transferir(a.ctx, a.usuario, dto.TransferirRequest{
		ProdutoID: id, Quantidade: 6, LocalOrigemID: dep, LocalDestinoID: loja,
	})
	requireCodigo(t, err, apierror.CodigoEstoqueInsuficiente)

	assert.Equal(t, 5, a.qtd(t, id, dep))
	assert.Equal(t, 0, a.qtd(t, id, loja))
}

func TestTransferencia_MesmoLocalRejeitada(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 5)

	_, err := a.movs.Transferir(a.ctx, a.usuario, dto.TransferirRequest{
		ProdutoID: id, Quantidade: 1, LocalOrigemID: dep, LocalDestinoID: dep,
	})
	requireCodigo(t, err, apierror.CodigoValidacao)
}

func TestSaida_SemLinhaDeEstoque(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Básica Azul", dep, 5)

	_, err := a.movs.Registrar(a.ctx, a.usuario, dto.RegistrarMovimentacaoRequest{
		Tipo: model.MovSaida, ProdutoID: id, Quantidade: 1, LocalOrigemID: loja,
	})
	requireCodigo(t, err, apierror.CodigoEstoqueInexistente)
}

func TestEntrada_ExcluirRestauraEstoque(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 12)

	mov := a.movimentar(t, model.MovEntrada, id, dep, "", 7)
	assert.Equal(t, 19, a.qtd(t, id, dep))

	require.NoError(t, a.movs.Excluir(a.ctx, a.usuario, mov))
	assert.Equal(t, 12, a.qtd(t, id, dep))

	_, err := a.movs.Obter(a.ctx, mov)
	requireCodigo(t, err, apierror.CodigoNaoEncontrado)
}

func TestExcluir_OrdemDasMovimentacoes(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Básica Azul", dep, 0)

	m1 := a.movimentar(t, model.MovEntrada, id, dep, "", 10)
	m2 := a.movimentar(t, model.MovTransferencia, id, dep, loja, 4)

	err := a.movs.Excluir(a.ctx, a.usuario, m1)
	requireCodigo(t, err, apierror.CodigoMovimentacaoPosterior)
	assert.Equal(t, 6, a.qtd(t, id, dep))
	assert.Equal(t, 4, a.qtd(t, id, loja))

	require.NoError(t, a.movs.Excluir(a.ctx, a.usuario, m2))
	assert.Equal(t, 10, a.qtd(t, id, dep))
	assert.Equal(t, 0, a.qtd(t, id, loja))

	require.NoError(t, a.movs.Excluir(a.ctx, a.usuario, m1))
	assert.Equal(t, 0, a.qtd(t, id, dep))
}

func TestExcluir_VendaNaoDevolveEstoque(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 10)

	mov := a.movimentar(t, model.MovVenda, id, dep, "", 3)
	assert.Equal(t, 7, a.qtd(t, id, dep))

	require.NoError(t, a.movs.Excluir(a.ctx, a.usuario, mov))
	assert.Equal(t, 7, a.qtd(t, id, dep))
}

func TestExcluir_ProdutoRemovidoApenasApagaRegistro(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 0)
	mov := a.movimentar(t, model.MovEntrada, id, dep, "", 4)
	a.movimentar(t, model.MovSaida, id, dep, "", 4)
	require.NoError(t, a.produtos.Excluir(a.ctx, a.usuario, id))

	require.NoError(t, a.movs.Excluir(a.ctx, a.usuario, mov))

	_, err := a.movs.Obter(a.ctx, mov)
	requireCodigo(t, err, apierror.CodigoNaoEncontrado)
}

func TestExcluir_ForaDaJanela(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 0)
	mov := a.movimentar(t, model.MovEntrada, id, dep, "", 10)

	a.movs.(*movimentacaoService).agora = func() time.Time { return time.Now().AddDate(0, 0, 31) }

	err := a.movs.Excluir(a.ctx, a.usuario, mov)
	requireCodigo(t, err, apierror.CodigoMovimentacaoAntiga)
	assert.Equal(t, 10, a.qtd(t, id, dep))
}

func TestExcluirDeProdutosRemovidos_Preview(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 3)
	a.movimentar(t, model.MovSaida, id, dep, "", 3)
	require.NoError(t, a.produtos.Excluir(a.ctx, a.usuario, id))

	prev, err := a.movs.ExcluirDeProdutosRemovidos(a.ctx, true)
	require.NoError(t, err)
	assert.True(t, prev.Preview)
	// estoque inicial + saida + closing movement
	assert.Equal(t, int64(3), prev.Quantidade)

	res, err := a.movs.ExcluirDeProdutosRemovidos(a.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Quantidade)

	lista, err := a.movs.Listar(a.ctx, dto.MovimentacaoFilter{Paginacao: dto.Paginacao{Pagina: 1, Limite: 20}})
	require.NoError(t, err)
	assert.Empty(t, lista.Movimentacoes)
}

func TestListar_FiltroPorTipo(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	loja := a.local(t, "Loja")
	id := a.produto(t, "Camiseta Básica Azul", dep, 10)
	a.movimentar(t, model.MovTransferencia, id, dep, loja, 2)

	lista, err := a.movs.Listar(a.ctx, dto.MovimentacaoFilter{
		Tipo:      model.MovTransferencia,
		Paginacao: dto.Paginacao{Pagina: 1, Limite: 20},
	})
	require.NoError(t, err)
	require.Len(t, lista.Movimentacoes, 1)
	m := lista.Movimentacoes[0]
	assert.Equal(t, "Depósito A", m.LocalOrigemNome)
	require.NotNil(t, m.LocalDestinoNome)
	assert.Equal(t, "Loja", *m.LocalDestinoNome)
	assert.Equal(t, int64(1), lista.Total)
}
