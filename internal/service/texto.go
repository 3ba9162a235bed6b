package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// semAcentos strips diacritics ("Depósito Grão" → "Deposito Grao").
func semAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// palavras splits s on anything that is not a letter or digit.
func palavras(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// slug turns a display name into a stable lowercase identifier.
func slug(nome string) string {
	return strings.Join(palavras(strings.ToLower(semAcentos(nome))), "-")
}
