package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/middleware"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their wire name (json for bodies, form for queries).
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindAndValidate binds the JSON body and runs the validator tags.
// On failure the error is attached to c and false is returned; the caller
// must return without writing.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(&apierror.Error{
			Tipo:     apierror.TipoValidacao,
			Codigo:   apierror.CodigoValidacao,
			Mensagem: "JSON inválido",
			Err:      err,
		})
		return false
	}
	if err := validate.Struct(req); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(&apierror.Error{
			Tipo:     apierror.TipoValidacao,
			Codigo:   apierror.CodigoValidacao,
			Mensagem: "Parâmetros de consulta inválidos",
			Err:      err,
		})
		return false
	}
	if err := validate.Struct(req); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// ok writes the success envelope: {"sucesso": true, "mensagem"?, ...payload}.
func ok(c *gin.Context, status int, mensagem string, payload gin.H) {
	body := gin.H{"sucesso": true}
	if mensagem != "" {
		body["mensagem"] = mensagem
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func okMsg(c *gin.Context, mensagem string) {
	ok(c, http.StatusOK, mensagem, nil)
}

// usuarioAtual returns the caller decoded from the JWT claims.
func usuarioAtual(c *gin.Context) (*model.Usuario, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		_ = c.Error(apierror.NaoAutenticado(apierror.CodigoTokenAusente, "Token de autenticação ausente"))
		return nil, false
	}
	u, err := claims.Usuario()
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return u, true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		_ = c.Error(apierror.Validacao(apierror.CodigoIDInvalido, "ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// paramID returns a non-empty string path parameter (product and location ids).
func paramID(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" || len(id) > 80 {
		_ = c.Error(apierror.Validacao(apierror.CodigoIDInvalido, "ID inválido"))
		return "", false
	}
	return id, true
}
