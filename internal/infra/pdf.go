package infra

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// ColunaPDF describes one table column; Largura is a fraction of the content width.
type ColunaPDF struct {
	Titulo      string
	Largura     float64
	Alinhamento string // "L", "C" or "R"
}

type TabelaPDF struct {
	Titulo  string
	Colunas []ColunaPDF
	Linhas  [][]string
	Vazia   string // shown instead of an empty table
}

// RelatorioPDF is the content of a report document: a title block, a
// key/value summary and any number of tables.
type RelatorioPDF struct {
	Titulo    string
	Subtitulo []string
	Resumo    [][2]string
	Tabelas   []TabelaPDF
	GeradoEm  time.Time
}

const (
	margemPDF   = 12.0
	alturaLinha = 6.0
)

// GerarRelatorioPDF renders doc as an A4 portrait PDF into w. Text goes
// through the cp1252 translator because only the core fonts are used.
func GerarRelatorioPDF(w io.Writer, doc RelatorioPDF) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margemPDF, margemPDF, margemPDF)
	pdf.SetAutoPageBreak(false, margemPDF)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	gerado := doc.GeradoEm
	if gerado.IsZero() {
		gerado = time.Now()
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margemPDF + 2)
		pdf.SetFont("Helvetica", "I", 7)
		rodape := fmt.Sprintf("Estoque Fácil - gerado em %s - página %d", gerado.Format("02/01/2006 15:04"), pdf.PageNo())
		pdf.CellFormat(0, 4, tr(rodape), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*margemPDF
	limiteY := pageH - 2*margemPDF

	// ── Title block ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 9, tr(doc.Titulo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, linha := range doc.Subtitulo {
		pdf.CellFormat(contentW, 5, tr(linha), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(margemPDF, pdf.GetY(), pageW-margemPDF, pdf.GetY())
	pdf.Ln(3)

	// ── Summary ──────────────────────────────────────────────────────────────
	if len(doc.Resumo) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, tr("Resumo"), "", 1, "L", false, 0, "")
		for _, kv := range doc.Resumo {
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(contentW*0.6, alturaLinha, truncar(pdf, tr, kv[0], contentW*0.6), "B", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(contentW*0.4, alturaLinha, truncar(pdf, tr, kv[1], contentW*0.4), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Tables ───────────────────────────────────────────────────────────────
	for _, t := range doc.Tabelas {
		if pdf.GetY()+3*alturaLinha > limiteY {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, tr(t.Titulo), "", 1, "L", false, 0, "")

		cabecalho := func() {
			pdf.SetFont("Helvetica", "B", 8)
			pdf.SetFillColor(230, 230, 230)
			for _, c := range t.Colunas {
				pdf.CellFormat(contentW*c.Largura, alturaLinha, tr(c.Titulo), "1", 0, alinhamento(c), true, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 8)
		}
		cabecalho()

		if len(t.Linhas) == 0 && t.Vazia != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(contentW, alturaLinha, tr(t.Vazia), "1", 1, "C", false, 0, "")
		}
		for _, linha := range t.Linhas {
			if pdf.GetY()+alturaLinha > limiteY {
				pdf.AddPage()
				cabecalho()
			}
			for i, c := range t.Colunas {
				var v string
				if i < len(linha) {
					v = linha[i]
				}
				largura := contentW * c.Largura
				pdf.CellFormat(largura, alturaLinha, truncar(pdf, tr, v, largura-2), "1", 0, alinhamento(c), false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: output: %w", err)
	}
	return nil
}

func alinhamento(c ColunaPDF) string {
	if c.Alinhamento == "" {
		return "L"
	}
	return c.Alinhamento
}

// truncar translates s and cuts it, rune by rune, until it fits largura,
// ending with "..." when anything was removed.
func truncar(pdf *fpdf.Fpdf, tr func(string) string, s string, largura float64) string {
	if pdf.GetStringWidth(tr(s)) <= largura {
		return tr(s)
	}
	runas := []rune(s)
	for len(runas) > 0 {
		runas = runas[:len(runas)-1]
		candidato := tr(string(runas) + "...")
		if pdf.GetStringWidth(candidato) <= largura {
			return candidato
		}
	}
	return tr("...")
}
