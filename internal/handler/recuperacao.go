package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type RecuperacaoHandler struct{ svc service.RecuperacaoSenhaService }

func NewRecuperacaoHandler(svc service.RecuperacaoSenhaService) *RecuperacaoHandler {
	return &RecuperacaoHandler{svc: svc}
}

// Solicitar answers the same message whether or not the email exists.
func (h *RecuperacaoHandler) Solicitar(c *gin.Context) {
	var req dto.SolicitarRecuperacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Solicitar(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		return
	}
	okMsg(c, "Se o email estiver cadastrado, você receberá um link para redefinir sua senha")
}

func (h *RecuperacaoHandler) Validar(c *gin.Context) {
	token, presente := tokenParam(c)
	if !presente {
		return
	}
	resp, err := h.svc.Validar(c.Request.Context(), token)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"valido": resp.Valido, "email": resp.Email})
}

func (h *RecuperacaoHandler) Redefinir(c *gin.Context) {
	token, presente := tokenParam(c)
	if !presente {
		return
	}
	var req dto.RedefinirSenhaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Redefinir(c.Request.Context(), token, req); err != nil {
		_ = c.Error(err)
		return
	}
	okMsg(c, "Senha redefinida com sucesso")
}

func tokenParam(c *gin.Context) (string, bool) {
	token := c.Param("token")
	if token == "" || len(token) > 64 {
		_ = c.Error(apierror.Validacao(apierror.CodigoTokenInvalido, "Token inválido"))
		return "", false
	}
	return token, true
}
