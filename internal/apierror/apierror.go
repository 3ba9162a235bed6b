// Package apierror provides the error taxonomy and the response envelope for the API.
// All errors returned to clients go through this package so that internal details
// (SQL errors, stack traces) never leak outside development.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Tipo classifies an error into one of the HTTP-facing categories.
type Tipo int

const (
	TipoValidacao Tipo = iota
	TipoNaoEncontrado
	TipoRegra
	TipoNaoAutenticado
	TipoProibido
	TipoLimite
	TipoInterno
)

// Machine-readable codes sent in the "codigo" field.
const (
	CodigoValidacao             = "VALIDACAO"
	CodigoIDInvalido            = "ID_INVALIDO"
	CodigoNaoEncontrado         = "NAO_ENCONTRADO"
	CodigoDuplicado             = "DUPLICADO"
	CodigoRestricao             = "VIOLACAO_RESTRICAO"
	CodigoEstoqueInsuficiente   = "ESTOQUE_INSUFICIENTE"
	CodigoEstoqueInexistente    = "ESTOQUE_INEXISTENTE"
	CodigoEstoqueConsumido      = "ESTOQUE_CONSUMIDO"
	CodigoMovimentacaoAntiga    = "MOVIMENTACAO_ANTIGA"
	CodigoMovimentacaoPosterior = "MOVIMENTACAO_POSTERIOR"
	CodigoProdutoComEstoque     = "PRODUTO_COM_ESTOQUE"
	CodigoLocalComEstoque       = "LOCAL_COM_ESTOQUE"
	CodigoLocalInativo          = "LOCAL_INATIVO"
	CodigoCodigosEsgotados      = "CODIGOS_ESGOTADOS"
	CodigoCredenciais           = "CREDENCIAIS_INVALIDAS"
	CodigoTokenAusente          = "TOKEN_AUSENTE"
	CodigoTokenInvalido         = "TOKEN_INVALIDO"
	CodigoTokenExpirado         = "TOKEN_EXPIRADO"
	CodigoSemPermissao          = "SEM_PERMISSAO"
	CodigoLimiteExcedido        = "LIMITE_EXCEDIDO"
	CodigoInterno               = "ERRO_INTERNO"
)

// Error is a classified, user-facing error. Err keeps the underlying cause for logs.
type Error struct {
	Tipo     Tipo
	Codigo   string
	Mensagem string
	Campos   map[string]string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Mensagem, e.Err)
	}
	return e.Mensagem
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error category to its HTTP status.
func (e *Error) Status() int {
	switch e.Tipo {
	case TipoValidacao, TipoRegra:
		return http.StatusBadRequest
	case TipoNaoEncontrado:
		return http.StatusNotFound
	case TipoNaoAutenticado:
		return http.StatusUnauthorized
	case TipoProibido:
		return http.StatusForbidden
	case TipoLimite:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Validacao(codigo, msg string) *Error {
	return &Error{Tipo: TipoValidacao, Codigo: codigo, Mensagem: msg}
}

func NaoEncontrado(msg string) *Error {
	return &Error{Tipo: TipoNaoEncontrado, Codigo: CodigoNaoEncontrado, Mensagem: msg}
}

// Regra is a business-rule or conflict violation (insufficient stock, duplicates, unsafe deletes).
func Regra(codigo, msg string) *Error {
	return &Error{Tipo: TipoRegra, Codigo: codigo, Mensagem: msg}
}

func NaoAutenticado(codigo, msg string) *Error {
	return &Error{Tipo: TipoNaoAutenticado, Codigo: codigo, Mensagem: msg}
}

func Proibido(msg string) *Error {
	return &Error{Tipo: TipoProibido, Codigo: CodigoSemPermissao, Mensagem: msg}
}

func LimiteExcedido(msg string) *Error {
	return &Error{Tipo: TipoLimite, Codigo: CodigoLimiteExcedido, Mensagem: msg}
}

func Interno(err error) *Error {
	return &Error{Tipo: TipoInterno, Codigo: CodigoInterno, Mensagem: "Erro interno do servidor", Err: err}
}

// CamposInvalidos builds a validation error listing the failed fields.
func CamposInvalidos(campos map[string]string) *Error {
	return &Error{Tipo: TipoValidacao, Codigo: CodigoValidacao, Mensagem: "Dados inválidos", Campos: campos}
}

// From classifies any error returned by services, GORM, the validator or jwt.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		campos := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			campos[fe.Field()] = fe.Tag()
		}
		return CamposInvalidos(campos)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Tipo: TipoNaoEncontrado, Codigo: CodigoNaoEncontrado, Mensagem: "Registro não encontrado", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Tipo: TipoRegra, Codigo: CodigoDuplicado, Mensagem: "Registro duplicado", Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated), errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Tipo: TipoRegra, Codigo: CodigoRestricao, Mensagem: "Operação viola uma restrição dos dados", Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &Error{Tipo: TipoNaoAutenticado, Codigo: CodigoTokenExpirado, Mensagem: "Token expirado", Err: err}
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return &Error{Tipo: TipoNaoAutenticado, Codigo: CodigoTokenInvalido, Mensagem: "Token inválido", Err: err}
	}
	return Interno(err)
}

// Resposta is the envelope shared by success and error responses.
type Resposta struct {
	Sucesso  bool              `json:"sucesso"`
	Mensagem string            `json:"mensagem,omitempty"`
	Codigo   string            `json:"codigo,omitempty"`
	Erro     string            `json:"erro,omitempty"`
	Campos   map[string]string `json:"campos,omitempty"`
}

// Envelope renders e for the client. Internal causes are only exposed when detalhes is set.
func (e *Error) Envelope(detalhes bool) Resposta {
	r := Resposta{Sucesso: false, Mensagem: e.Mensagem, Codigo: e.Codigo, Campos: e.Campos}
	if detalhes && e.Err != nil {
		r.Erro = e.Err.Error()
	}
	return r
}

func New(codigo, msg string) Resposta {
	return Resposta{Sucesso: false, Mensagem: msg, Codigo: codigo}
}
