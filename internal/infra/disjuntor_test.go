package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFalha = errors.New("smtp timeout")

func disjuntorDeTeste() (*Disjuntor, *time.Time) {
	agora := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDisjuntor(ConfigDisjuntor{FalhasParaAbrir: 2, SucessosParaFechar: 2, TempoAberto: time.Minute})
	d.agora = func() time.Time { return agora }
	return d, &agora
}

func TestDisjuntor_AbreAposFalhas(t *testing.T) {
	d, _ := disjuntorDeTeste()
	assert.Equal(t, Fechado, d.Estado())

	require.ErrorIs(t, d.Executar(func() error { return errFalha }), errFalha)
	assert.Equal(t, Fechado, d.Estado())
	require.ErrorIs(t, d.Executar(func() error { return errFalha }), errFalha)
	assert.Equal(t, Aberto, d.Estado())

	chamado := false
	err := d.Executar(func() error { chamado = true; return nil })
	require.ErrorIs(t, err, ErrDisjuntorAberto)
	assert.False(t, chamado)
}

func TestDisjuntor_SucessoZeraContagem(t *testing.T) {
	d, _ := disjuntorDeTeste()
	_ = d.Executar(func() error { return errFalha })
	require.NoError(t, d.Executar(func() error { return nil }))
	_ = d.Executar(func() error { return errFalha })
	assert.Equal(t, Fechado, d.Estado())
}

func TestDisjuntor_SemiAbertoFechaOuReabre(t *testing.T) {
	d, agora := disjuntorDeTeste()
	_ = d.Executar(func() error { return errFalha })
	_ = d.Executar(func() error { return errFalha })
	require.Equal(t, Aberto, d.Estado())

	*agora = agora.Add(time.Minute)
	assert.Equal(t, SemiAberto, d.Estado())
	assert.Equal(t, "semiaberto", d.Estado().String())

	// A failed probe reopens immediately.
	_ = d.Executar(func() error { return errFalha })
	assert.Equal(t, Aberto, d.Estado())

	*agora = agora.Add(time.Minute)
	require.NoError(t, d.Executar(func() error { return nil }))
	assert.Equal(t, SemiAberto, d.Estado())
	require.NoError(t, d.Executar(func() error { return nil }))
	assert.Equal(t, Fechado, d.Estado())
}

func TestNewDisjuntor_Padroes(t *testing.T) {
	d := NewDisjuntor(ConfigDisjuntor{})
	assert.Equal(t, DefaultConfigDisjuntor(), d.cfg)
	assert.Equal(t, "desconhecido", EstadoDisjuntor(42).String())
}
