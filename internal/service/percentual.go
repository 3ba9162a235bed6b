package service

import (
	"sort"

	"github.com/shopspring/decimal"
)

// percentuais splits 100.00 across valores proportionally, to two decimal
// places, using largest-remainder rounding so a non-empty list with a
// positive total always sums to exactly 100.00. A zero total yields zeros.
func percentuais(valores []int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(valores))
	var total int64
	for _, v := range valores {
		total += v
	}
	if total <= 0 {
		for i := range out {
			out[i] = decimal.Zero
		}
		return out
	}

	const escala = 10000 // hundredths of a percent point
	centesimos := make([]int64, len(valores))
	restos := make([]int64, len(valores))
	var soma int64
	for i, v := range valores {
		bruto := v * escala
		centesimos[i] = bruto / total
		restos[i] = bruto % total
		soma += centesimos[i]
	}

	ordem := make([]int, len(valores))
	for i := range ordem {
		ordem[i] = i
	}
	sort.SliceStable(ordem, func(a, b int) bool { return restos[ordem[a]] > restos[ordem[b]] })
	for k := 0; soma < escala; k++ {
		centesimos[ordem[k%len(ordem)]]++
		soma++
	}

	for i, c := range centesimos {
		out[i] = decimal.New(c, -2)
	}
	return out
}
