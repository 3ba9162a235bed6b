package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type LocaisHandler struct{ svc service.LocalService }

func NewLocaisHandler(svc service.LocalService) *LocaisHandler {
	return &LocaisHandler{svc: svc}
}

func (h *LocaisHandler) Criar(c *gin.Context) {
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	var req dto.CriarLocalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	l, err := h.svc.Criar(c.Request.Context(), &u.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "Local criado com sucesso", gin.H{"local": l})
}

func (h *LocaisHandler) Listar(c *gin.Context) {
	var filter dto.LocalFilter
	if !bindQuery(c, &filter) {
		return
	}
	locais, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"locais": locais})
}

func (h *LocaisHandler) Obter(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	l, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"local": l})
}

func (h *LocaisHandler) Atualizar(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	var req dto.AtualizarLocalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	l, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Local atualizado com sucesso", gin.H{"local": l})
}

func (h *LocaisHandler) Excluir(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	okMsg(c, "Local excluído com sucesso")
}

func (h *LocaisHandler) Nomes(c *gin.Context) {
	nomes, err := h.svc.Nomes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"locais": nomes})
}

func (h *LocaisHandler) Tipos(c *gin.Context) {
	ok(c, http.StatusOK, "", gin.H{"tipos": h.svc.Tipos()})
}
