package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

func TestDerivarFlags(t *testing.T) {
	l := LimitesEstoque{Critico: 10, Baixo: 20}

	zerado, critico, baixo := DerivarFlags([]int{0, 5, 25}, l)
	assert.True(t, zerado)
	assert.True(t, critico)
	assert.False(t, baixo)

	zerado, critico, baixo = DerivarFlags([]int{10, 19}, l)
	assert.False(t, zerado)
	assert.False(t, critico)
	assert.True(t, baixo)

	zerado, critico, baixo = DerivarFlags(nil, l)
	assert.False(t, zerado || critico || baixo)
}

func TestLimitesStatus(t *testing.T) {
	l := DefaultLimites()
	assert.Equal(t, "zerado", l.Status(0))
	assert.Equal(t, "critico", l.Status(9))
	assert.Equal(t, "baixo", l.Status(10))
	assert.Equal(t, "normal", l.Status(20))
}

func TestRecalcularFlagsGlobal_CorrigeFlagsDivergentes(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito")
	cheio := a.produto(t, "Camiseta Cheia", dep, 50)
	vazio := a.produto(t, "Camiseta Vazia", dep, 0)

	// Corrupt the cached flags behind the services' back.
	require.NoError(t, a.db.Model(&model.Produto{}).Where("id = ?", cheio).
		Updates(map[string]any{"tem_estoque_zerado": true, "tem_estoque_critico": true}).Error)
	require.NoError(t, a.db.Model(&model.Produto{}).Where("id = ?", vazio).
		Update("tem_estoque_zerado", false).Error)

	res, err := a.estoque.RecalcularFlagsGlobal(a.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProdutosZerados)
	assert.Equal(t, 0, res.ProdutosCriticos)

	p, err := a.produtos.Obter(a.ctx, cheio)
	require.NoError(t, err)
	assert.False(t, p.TemEstoqueZerado)
	assert.False(t, p.TemEstoqueCritico)

	p, err = a.produtos.Obter(a.ctx, vazio)
	require.NoError(t, err)
	assert.True(t, p.TemEstoqueZerado)
}

func TestVerificarDisponibilidade(t *testing.T) {
	a := novoAmbiente(t)
	dep := a.local(t, "Depósito")
	id := a.produto(t, "Camiseta Básica Azul", dep, 8)

	d, err := a.estoque.VerificarDisponibilidade(a.ctx, id, dep, 8)
	require.NoError(t, err)
	assert.True(t, d.Disponivel)
	assert.Equal(t, 8, d.QuantidadeAtual)

	d, err = a.estoque.VerificarDisponibilidade(a.ctx, id, dep, 9)
	require.NoError(t, err)
	assert.False(t, d.Disponivel)
}
