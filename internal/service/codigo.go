package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
)

const maxSequenciaCodigo = 99

// PrefixoCodigo builds the product code prefix: the first letter of tipo,
// categoria and subcategoria followed by the initials of up to three words
// of nome, accent-free and upper-case.
//
//	("Roupa", "Camiseta", "Manga Curta", "Camiseta Básica Azul") → "RCMCBA"
func PrefixoCodigo(tipo, categoria, subcategoria, nome string) string {
	var b strings.Builder
	for _, campo := range []string{tipo, categoria, subcategoria} {
		if ws := palavras(semAcentos(campo)); len(ws) > 0 {
			b.WriteRune(inicial(ws[0]))
		}
	}
	ws := palavras(semAcentos(nome))
	if len(ws) > 3 {
		ws = ws[:3]
	}
	for _, w := range ws {
		b.WriteRune(inicial(w))
	}
	return strings.ToUpper(b.String())
}

func inicial(w string) rune {
	r, _ := utf8.DecodeRuneInString(w)
	return r
}

// ProximoCodigo returns prefixo plus the lowest free two-digit sequence,
// given the codes already taken under that prefix.
func ProximoCodigo(prefixo string, existentes []string) (string, error) {
	usados := make(map[int]bool, len(existentes))
	for _, id := range existentes {
		sufixo, ok := strings.CutPrefix(id, prefixo)
		if !ok || len(sufixo) != 2 {
			continue
		}
		if n, err := strconv.Atoi(sufixo); err == nil {
			usados[n] = true
		}
	}
	for n := 1; n <= maxSequenciaCodigo; n++ {
		if !usados[n] {
			return fmt.Sprintf("%s%02d", prefixo, n), nil
		}
	}
	return "", apierror.Regra(apierror.CodigoCodigosEsgotados,
		fmt.Sprintf("Não há códigos disponíveis para o prefixo %s", prefixo))
}
