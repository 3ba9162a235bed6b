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

func TestRecuperacao_FluxoCompleto(t *testing.T) {
	c := novasContas(t)
	c.criar(t, "ana@loja.com", model.RoleFuncionario)

	require.NoError(t, c.recuperacao.Solicitar(c.ctx, dto.SolicitarRecuperacaoRequest{Email: "ana@loja.com"}))
	token := c.notificador.token("ana@loja.com")
	require.Len(t, token, 64)
	assert.Equal(t, "http://front/redefinir-senha/"+token, c.notificador.links["ana@loja.com"])

	v, err := c.recuperacao.Validar(c.ctx, token)
	require.NoError(t, err)
	assert.True(t, v.Valido)
	assert.Equal(t, "ana@loja.com", v.Email)

	require.NoError(t, c.recuperacao.Redefinir(c.ctx, token, dto.RedefinirSenhaRequest{NovaSenha: "trocada1"}))
	_, err = c.auth.Login(c.ctx, dto.LoginRequest{Email: "ana@loja.com", Senha: "trocada1"})
	require.NoError(t, err)

	// Single use.
	err = c.recuperacao.Redefinir(c.ctx, token, dto.RedefinirSenhaRequest{NovaSenha: "denovo12"})
	requireCodigo(t, err, apierror.CodigoTokenInvalido)
	v, err = c.recuperacao.Validar(c.ctx, token)
	require.NoError(t, err)
	assert.False(t, v.Valido)
}

func TestRecuperacao_EmailDesconhecidoNaoRevela(t *testing.T) {
	c := novasContas(t)
	require.NoError(t, c.recuperacao.Solicitar(c.ctx, dto.SolicitarRecuperacaoRequest{Email: "ninguem@loja.com"}))
	assert.Empty(t, c.notificador.links)
}

func TestRecuperacao_NovoPedidoInvalidaAnterior(t *testing.T) {
	c := novasContas(t)
	c.criar(t, "ana@loja.com", model.RoleFuncionario)

	require.NoError(t, c.recuperacao.Solicitar(c.ctx, dto.SolicitarRecuperacaoRequest{Email: "ana@loja.com"}))
	primeiro := c.notificador.token("ana@loja.com")
	require.NoError(t, c.recuperacao.Solicitar(c.ctx, dto.SolicitarRecuperacaoRequest{Email: "ana@loja.com"}))
	segundo := c.notificador.token("ana@loja.com")
	require.NotEqual(t, primeiro, segundo)

	v, err := c.recuperacao.Validar(c.ctx, primeiro)
	require.NoError(t, err)
	assert.False(t, v.Valido)
	v, err = c.recuperacao.Validar(c.ctx, segundo)
	require.NoError(t, err)
	assert.True(t, v.Valido)
}

func TestRecuperacao_TokenExpirado(t *testing.T) {
	c := novasContas(t)
	c.criar(t, "ana@loja.com", model.RoleFuncionario)
	require.NoError(t, c.recuperacao.Solicitar(c.ctx, dto.SolicitarRecuperacaoRequest{Email: "ana@loja.com"}))
	token := c.notificador.token("ana@loja.com")

	c.recuperacao.agora = func() time.Time { return time.Now().Add(2 * time.Hour) }

	v, err := c.recuperacao.Validar(c.ctx, token)
	require.NoError(t, err)
	assert.False(t, v.Valido)
	err = c.recuperacao.Redefinir(c.ctx, token, dto.RedefinirSenhaRequest{NovaSenha: "trocada1"})
	requireCodigo(t, err, apierror.CodigoTokenInvalido)
}
