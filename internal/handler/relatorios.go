package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

type RelatoriosHandler struct{ svc service.RelatorioService }

func NewRelatoriosHandler(svc service.RelatorioService) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc}
}

func (h *RelatoriosHandler) Resumo(c *gin.Context) {
	var filter dto.ResumoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Resumo(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"relatorio": resp})
}

func (h *RelatoriosHandler) PDFResumo(c *gin.Context) {
	var filter dto.ResumoFilter
	if !bindQuery(c, &filter) {
		return
	}
	pdf, err := h.svc.PDFResumo(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	enviarPDF(c, "relatorio-estoque", pdf)
}

// Dados serves /relatorios/v2/dados: rankings and daily series for a period.
func (h *RelatoriosHandler) Dados(c *gin.Context) {
	var filter dto.RelatorioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Dados(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"dados": resp})
}

func (h *RelatoriosHandler) PDFDados(c *gin.Context) {
	var filter dto.RelatorioFilter
	if !bindQuery(c, &filter) {
		return
	}
	pdf, err := h.svc.PDFDados(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	enviarPDF(c, fmt.Sprintf("relatorio-vendas-%s-a-%s", filter.DataInicio, filter.DataFim), pdf)
}

func enviarPDF(c *gin.Context, nome string, pdf []byte) {
	arquivo := fmt.Sprintf("%s-%s.pdf", nome, time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, arquivo))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
