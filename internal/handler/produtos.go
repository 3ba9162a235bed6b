package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type ProdutosHandler struct{ svc service.ProdutoService }

func NewProdutosHandler(svc service.ProdutoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

func (h *ProdutosHandler) Criar(c *gin.Context) {
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Criar(c.Request.Context(), u.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "Produto criado com sucesso", gin.H{"produto": p})
}

func (h *ProdutosHandler) Listar(c *gin.Context) {
	var filter dto.ProdutoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"produtos": resp.Produtos, "paginacao": resp.PaginacaoResponse})
}

func (h *ProdutosHandler) Obter(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	p, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"produto": p})
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Produto atualizado com sucesso", gin.H{"produto": p})
}

// ZerarEstoque empties every location of the product, logging one saida each.
func (h *ProdutosHandler) ZerarEstoque(c *gin.Context) {
	id, valido := paramID(c, "id")
	if !valido {
		return
	}
	u, autenticado := usuarioAtual(c)
	if !autenticado {
		return
	}
	resp, err := h.svc.ZerarEstoque(c.Request.Context(), u.ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Estoque zerado com sucesso", gin.H{"resultado": resp})
}

func (h *ProdutosHandler) Excluir(c *gin.Context) {
	id, valido := paramID(c, "id")
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
	okMsg(c, "Produto excluído com sucesso")
}

func (h *ProdutosHandler) Categorias(c *gin.Context) {
	arvore, err := h.svc.ListarCategorias(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"categorias": arvore})
}
