package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

// UsuariosHandler manages user accounts (admin only, except AlterarSenha).
type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	usuarios, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"usuarios": usuarios})
}

func (h *UsuariosHandler) Obter(c *gin.Context) {
	id, valido := parseUUID(c, "id")
	if !valido {
		return
	}
	u, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"usuario": u})
}

func (h *UsuariosHandler) Criar(c *gin.Context) {
	var req dto.CriarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "Usuário criado com sucesso", gin.H{"usuario": u})
}

func (h *UsuariosHandler) Atualizar(c *gin.Context) {
	id, valido := parseUUID(c, "id")
	if !valido {
		return
	}
	var req dto.AtualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Usuário atualizado com sucesso", gin.H{"usuario": u})
}

func (h *UsuariosHandler) Excluir(c *gin.Context) {
	id, valido := parseUUID(c, "id")
	if !valido {
		return
	}
	solicitante, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), solicitante.ID, id); err != nil {
		_ = c.Error(err)
		return
	}
	okMsg(c, "Usuário excluído com sucesso")
}

func (h *UsuariosHandler) AlterarSenha(c *gin.Context) {
	id, valido := parseUUID(c, "id")
	if !valido {
		return
	}
	solicitante, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	var req dto.AlterarSenhaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AlterarSenha(c.Request.Context(), solicitante, id, req); err != nil {
		_ = c.Error(err)
		return
	}
	okMsg(c, "Senha alterada com sucesso")
}
