package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type MovimentacoesHandler struct{ svc service.MovimentacaoService }

func NewMovimentacoesHandler(svc service.MovimentacaoService) *MovimentacoesHandler {
	return &MovimentacoesHandler{svc: svc}
}

func (h *MovimentacoesHandler) Registrar(c *gin.Context) {
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	var req dto.RegistrarMovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Registrar(c.Request.Context(), u.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "Movimentação registrada com sucesso", gin.H{"movimentacao": m})
}

// Transferir serves POST /estoque/transferir.
func (h *MovimentacoesHandler) Transferir(c *gin.Context) {
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	var req dto.TransferirRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Transferir(c.Request.Context(), u.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Transferência realizada com sucesso", gin.H{"movimentacao": m})
}

func (h *MovimentacoesHandler) Listar(c *gin.Context) {
	var filter dto.MovimentacaoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"movimentacoes": resp.Movimentacoes, "paginacao": resp.PaginacaoResponse})
}

func (h *MovimentacoesHandler) Obter(c *gin.Context) {
	id, valido := parseUUID(c, "id")
	if !valido {
		return
	}
	m, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"movimentacao": m})
}

// Excluir reverses the movement's stock effect (entrada, transferencia)
// and deletes it.
func (h *MovimentacoesHandler) Excluir(c *gin.Context) {
	id, valido := parseUUID(c, "id")
	if !valido {
		return
	}
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), u.ID, id); err != nil {
		_ = c.Error(err)
		return
	}
	okMsg(c, "Movimentação excluída com sucesso")
}

func (h *MovimentacoesHandler) ExcluirDeProdutosRemovidos(c *gin.Context) {
	var q dto.LimpezaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.ExcluirDeProdutosRemovidos(c.Request.Context(), q.Preview)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, mensagemLimpeza(resp, "movimentações"), gin.H{
		"preview":    resp.Preview,
		"quantidade": resp.Quantidade,
	})
}

func mensagemLimpeza(r *dto.LimpezaResponse, oque string) string {
	if r.Preview {
		return fmt.Sprintf("%d %s de produtos removidos seriam excluídas", r.Quantidade, oque)
	}
	return fmt.Sprintf("%d %s de produtos removidos excluídas", r.Quantidade, oque)
}
