package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

// Verificar answers whether a location holds enough units of a product.
func (h *EstoqueHandler) Verificar(c *gin.Context) {
	var q dto.VerificarEstoqueQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.VerificarDisponibilidade(c.Request.Context(), q.ProdutoID, q.LocalID, q.Quantidade)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, resp.Mensagem, gin.H{
		"disponivel":           resp.Disponivel,
		"quantidadeAtual":      resp.QuantidadeAtual,
		"quantidadeSolicitada": resp.QuantidadeSolicitada,
	})
}

func (h *EstoqueHandler) Listar(c *gin.Context) {
	var filter dto.EstoqueFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"estoques": resp.Estoques, "paginacao": resp.PaginacaoResponse})
}

func (h *EstoqueHandler) PorProduto(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.PorProduto(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"estoque": resp})
}

// RecalcularFlags rebuilds every product's stock flags from the stock rows.
func (h *EstoqueHandler) RecalcularFlags(c *gin.Context) {
	resp, err := h.svc.RecalcularFlagsGlobal(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Flags de estoque recalculadas", gin.H{"resultado": resp})
}
