package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary      Autenticar usuário
// @Tags         auth
// @Param        body body dto.LoginRequest true "Credenciais"
// @Success      200 {object} dto.LoginResponse
// @Failure      401 {object} apierror.Resposta
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Login realizado com sucesso", gin.H{
		"token":    resp.Token,
		"expiraEm": resp.ExpiraEm,
		"usuario":  resp.Usuario,
	})
}

// Registro godoc
// @Summary      Criar conta de funcionário
// @Tags         auth
// @Param        body body dto.RegistroRequest true "Dados do usuário"
// @Success      201 {object} dto.LoginResponse
// @Router       /auth/registro [post]
func (h *AuthHandler) Registro(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "Usuário registrado com sucesso", gin.H{
		"token":    resp.Token,
		"expiraEm": resp.ExpiraEm,
		"usuario":  resp.Usuario,
	})
}

// Verificar returns the caller's current record, so a deleted or demoted
// account is noticed even while its token is still valid.
func (h *AuthHandler) Verificar(c *gin.Context) {
	u, okAuth := usuarioAtual(c)
	if !okAuth {
		return
	}
	resp, err := h.svc.Verificar(c.Request.Context(), u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"usuario": resp})
}
