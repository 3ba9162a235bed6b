package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

func TestLocal_CriarDerivaIDENomeUnico(t *testing.T) {
	a := novoAmbiente(t)

	l, err := a.locais.Criar(a.ctx, &a.usuario, dto.CriarLocalRequest{Nome: " Depósito A "})
	require.NoError(t, err)
	assert.Equal(t, "deposito-a", l.ID)
	assert.Equal(t, "Depósito A", l.Nome)
	assert.Equal(t, "deposito", l.Tipo)
	assert.True(t, l.Ativo)

	_, err = a.locais.Criar(a.ctx, &a.usuario, dto.CriarLocalRequest{Nome: "Depósito A"})
	requireCodigo(t, err, apierror.CodigoDuplicado)
}

func TestLocal_RenomearNaoMudaID(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 5)

	novo := "Depósito Central"
	l, err := a.locais.Atualizar(a.ctx, dep, dto.AtualizarLocalRequest{Nome: &novo})
	require.NoError(t, err)
	assert.Equal(t, dep, l.ID)
	assert.Equal(t, 5, a.qtd(t, id, dep))

	// The old name is free again and gets a suffixed id.
	outro, err := a.locais.Criar(a.ctx, nil, dto.CriarLocalRequest{Nome: "Depósito A"})
	require.NoError(t, err)
	assert.Equal(t, "deposito-a-2", outro.ID)
}

func TestLocal_ExcluirComEstoque(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito A")
	id := a.produto(t, "Camiseta Básica Azul", dep, 2)

	err := a.locais.Excluir(a.ctx, dep)
	requireCodigo(t, err, apierror.CodigoLocalComEstoque)

	a.movimentar(t, model.MovSaida, id, dep, "", 2)
	require.NoError(t, a.locais.Excluir(a.ctx, dep))

	_, err = a.locais.Obter(a.ctx, dep)
	requireCodigo(t, err, apierror.CodigoNaoEncontrado)

	// The old slug is still referenced by the movement log.
	novo := a.local(t, "Depósito A")
	assert.Equal(t, "deposito-a-2", novo)
}

func TestLocal_SlugLivreSemHistorico(t *testing.T) {
	a := novoAmbiente(t)
	vitrine := a.local(t, "Vitrine")
	require.NoError(t, a.locais.Excluir(a.ctx, vitrine))
	assert.Equal(t, "vitrine", a.local(t, "Vitrine"))
}

func TestLocal_GarantirPadraoIdempotente(t *testing.T) {
	a := novoAmbiente(t)
	nomes := []string{"Depósito Principal", "Loja"}

	require.NoError(t, a.locais.GarantirPadrao(a.ctx, nomes))
	require.NoError(t, a.locais.GarantirPadrao(a.ctx, nomes))

	lista, err := a.locais.Listar(a.ctx, dto.LocalFilter{})
	require.NoError(t, err)
	assert.Len(t, lista, 2)

	ativos, err := a.locais.Nomes(a.ctx)
	require.NoError(t, err)
	assert.Len(t, ativos, 2)
}

func TestLocal_ListarFiltroInvalido(t *testing.T) {
	a := novoAmbiente(t)
	_, err := a.locais.Listar(a.ctx, dto.LocalFilter{Ativo: "talvez"})
	requireCodigo(t, err, apierror.CodigoValidacao)
}

func TestLocal_Tipos(t *testing.T) {
	a := novoAmbiente(t)
	tipos := a.locais.Tipos()
	require.Len(t, tipos, len(model.TiposLocal))
	assert.Equal(t, "Depósito", tipos[0].Rotulo)
}
