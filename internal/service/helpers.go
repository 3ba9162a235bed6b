package service

import (
	"errors"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const nomeProdutoRemovido = "Produto removido"

// naoEncontrado turns gorm.ErrRecordNotFound into a 404 with msg; other errors pass through.
func naoEncontrado(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NaoEncontrado(msg)
	}
	return err
}

func nomeOu(nome *string, alternativa string) string {
	if nome == nil || *nome == "" {
		return alternativa
	}
	return *nome
}

func uuidStr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func opcional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const layoutData = "2006-01-02"

// intervaloDatas parses optional YYYY-MM-DD bounds into [inicio, fim) where
// fim is the day after dataFim, so dataFim is inclusive.
func intervaloDatas(dataInicio, dataFim string) (inicio, fim *time.Time, err error) {
	if dataInicio != "" {
		t, err := time.ParseInLocation(layoutData, dataInicio, time.Local)
		if err != nil {
			return nil, nil, apierror.Validacao(apierror.CodigoValidacao, "dataInicio deve estar no formato AAAA-MM-DD")
		}
		inicio = &t
	}
	if dataFim != "" {
		t, err := time.ParseInLocation(layoutData, dataFim, time.Local)
		if err != nil {
			return nil, nil, apierror.Validacao(apierror.CodigoValidacao, "dataFim deve estar no formato AAAA-MM-DD")
		}
		t = t.AddDate(0, 0, 1)
		fim = &t
	}
	if inicio != nil && fim != nil && !fim.After(*inicio) {
		return nil, nil, apierror.Validacao(apierror.CodigoValidacao, "dataFim deve ser igual ou posterior a dataInicio")
	}
	return inicio, fim, nil
}

func inicioDoDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
