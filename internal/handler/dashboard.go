package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Metricas(c *gin.Context) {
	m, err := h.svc.Metricas(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"metricas": m})
}

func (h *DashboardHandler) Produtos(c *gin.Context) {
	responder(c, "produtos", h.svc.ProdutosRecentes)
}

func (h *DashboardHandler) Vendas(c *gin.Context) {
	responder(c, "vendas", h.svc.VendasSemana)
}

func (h *DashboardHandler) TopProdutos(c *gin.Context) {
	responder(c, "produtos", h.svc.TopProdutos)
}

func (h *DashboardHandler) EstoqueBaixo(c *gin.Context) {
	responder(c, "estoques", h.svc.EstoqueBaixo)
}

func (h *DashboardHandler) Categorias(c *gin.Context) {
	responder(c, "categorias", h.svc.Categorias)
}

func (h *DashboardHandler) Transacoes(c *gin.Context) {
	responder(c, "transacoes", h.svc.Transacoes)
}

// responder runs a parameterless list query and wraps it under chave.
func responder[T any](c *gin.Context, chave string, consulta func(context.Context) ([]T, error)) {
	itens, err := consulta(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if itens == nil {
		itens = []T{}
	}
	ok(c, http.StatusOK, "", gin.H{chave: itens})
}
