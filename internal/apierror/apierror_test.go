package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		codigo string
	}{
		{"api error embrulhado", fmt.Errorf("venda: %w", Regra(CodigoEstoqueInsuficiente, "Estoque insuficiente")), http.StatusBadRequest, CodigoEstoqueInsuficiente},
		{"registro ausente", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), http.StatusNotFound, CodigoNaoEncontrado},
		{"duplicado", gorm.ErrDuplicatedKey, http.StatusBadRequest, CodigoDuplicado},
		{"chave estrangeira", gorm.ErrForeignKeyViolated, http.StatusBadRequest, CodigoRestricao},
		{"token expirado", jwt.ErrTokenExpired, http.StatusUnauthorized, CodigoTokenExpirado},
		{"token malformado", jwt.ErrTokenMalformed, http.StatusUnauthorized, CodigoTokenInvalido},
		{"proibido", Proibido("sem acesso"), http.StatusForbidden, CodigoSemPermissao},
		{"limite", LimiteExcedido("devagar"), http.StatusTooManyRequests, CodigoLimiteExcedido},
		{"desconhecido", errors.New("pq: connection reset"), http.StatusInternalServerError, CodigoInterno},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := From(tt.err)
			assert.Equal(t, tt.status, e.Status())
			assert.Equal(t, tt.codigo, e.Codigo)
		})
	}
}

func TestFrom_ErrosDeValidacao(t *testing.T) {
	type entrada struct {
		Nome       string `validate:"required"`
		Quantidade int    `validate:"gte=0"`
	}
	err := validator.New().Struct(entrada{Quantidade: -1})

	e := From(err)
	assert.Equal(t, CodigoValidacao, e.Codigo)
	assert.Equal(t, map[string]string{"Nome": "required", "Quantidade": "gte"}, e.Campos)
}

func TestEnvelope_DetalhesSoEmDesenvolvimento(t *testing.T) {
	e := Interno(errors.New("dial tcp 10.0.0.1:5432: refused"))

	r := e.Envelope(false)
	assert.False(t, r.Sucesso)
	assert.Equal(t, "Erro interno do servidor", r.Mensagem)
	assert.Empty(t, r.Erro)

	assert.Contains(t, e.Envelope(true).Erro, "refused")
	assert.Contains(t, e.Error(), "refused")
}
