package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler {
	return &VendasHandler{svc: svc}
}

// Registrar debits stock, logs the venda movement and stores the sale in
// one transaction.
func (h *VendasHandler) Registrar(c *gin.Context) {
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	v, err := h.svc.Registrar(c.Request.Context(), u.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "Venda registrada com sucesso", gin.H{"venda": v})
}

func (h *VendasHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"vendas": resp.Vendas, "paginacao": resp.PaginacaoResponse})
}

func (h *VendasHandler) Historico(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Historico(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{
		"vendas":        resp.Vendas,
		"totalVendas":   resp.TotalVendas,
		"totalUnidades": resp.TotalUnidades,
		"paginacao":     resp.PaginacaoResponse,
	})
}

func (h *VendasHandler) ExcluirDeProdutosRemovidos(c *gin.Context) {
	var q dto.LimpezaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.ExcluirDeProdutosRemovidos(c.Request.Context(), q.Preview)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, mensagemLimpeza(resp, "vendas"), gin.H{
		"preview":    resp.Preview,
		"quantidade": resp.Quantidade,
	})
}
