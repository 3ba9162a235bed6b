package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
)

func TestPrefixoCodigo(t *testing.T) {
	cases := []struct {
		tipo, categoria, sub, nome string
		want                       string
	}{
		{"Roupa", "Camiseta", "Manga Curta", "Camiseta Básica Azul", "RCMCBA"},
		{"eletrônico", "Áudio", "fone", "Fone Bluetooth Pro Max", "EAFFBP"},
		{"Roupa", "Calça", "Jeans", "Skinny", "RCJS"},
		{"  ", "", "", "", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PrefixoCodigo(c.tipo, c.categoria, c.sub, c.nome), c.nome)
	}
}

func TestProximoCodigo_MenorLivre(t *testing.T) {
	got, err := ProximoCodigo("RCJS", nil)
	require.NoError(t, err)
	assert.Equal(t, "RCJS01", got)

	got, err = ProximoCodigo("RCJS", []string{"RCJS01", "RCJS02", "RCJS04", "RCJSX01"})
	require.NoError(t, err)
	assert.Equal(t, "RCJS03", got)
}

func TestProximoCodigo_Esgotado(t *testing.T) {
	existentes := make([]string, 0, 99)
	for n := 1; n <= 99; n++ {
		c, err := ProximoCodigo("AB", existentes)
		require.NoError(t, err)
		existentes = append(existentes, c)
	}
	_, err := ProximoCodigo("AB", existentes)
	requireCodigo(t, err, apierror.CodigoCodigosEsgotados)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "deposito-principal", slug("Depósito Principal"))
	assert.Equal(t, "loja-2", slug("  Loja #2 "))
}
