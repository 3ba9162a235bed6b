package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	diasResumoPadrao = 30
	maxDiasPadrao    = 366
)

type RelatorioService interface {
	Resumo(ctx context.Context, filter dto.ResumoFilter) (*dto.RelatorioResumo, error)
	Dados(ctx context.Context, filter dto.RelatorioFilter) (*dto.RelatorioDados, error)
	PDFResumo(ctx context.Context, filter dto.ResumoFilter) ([]byte, error)
	PDFDados(ctx context.Context, filter dto.RelatorioFilter) ([]byte, error)
}

type relatorioService struct {
	relatorios    repository.RelatorioRepository
	produtos      repository.ProdutoRepository
	estoques      repository.EstoqueRepository
	movimentacoes repository.MovimentacaoRepository
	vendas        repository.VendaRepository
	locais        repository.LocalRepository
	topN          int
	maxDias       int
	agora         func() time.Time
}

func NewRelatorioService(
	relatorios repository.RelatorioRepository,
	produtos repository.ProdutoRepository,
	estoques repository.EstoqueRepository,
	movimentacoes repository.MovimentacaoRepository,
	vendas repository.VendaRepository,
	locais repository.LocalRepository,
	topN, maxDias int,
) RelatorioService {
	if maxDias < 1 {
		maxDias = maxDiasPadrao
	}
	return &relatorioService{
		relatorios:    relatorios,
		produtos:      produtos,
		estoques:      estoques,
		movimentacoes: movimentacoes,
		vendas:        vendas,
		locais:        locais,
		topN:          topN,
		maxDias:       maxDias,
		agora:         time.Now,
	}
}

// ── v1 ────────────────────────────────────────────────────────────────────────

// periodoResumo resolves the optional v1 dates; a missing bound falls back
// to a 30-day window ending today.
func (s *relatorioService) periodoResumo(filter dto.ResumoFilter) (time.Time, time.Time, error) {
	inicio, fim, err := intervaloDatas(filter.DataInicio, filter.DataFim)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if fim == nil {
		f := inicioDoDia(s.agora()).AddDate(0, 0, 1)
		if inicio != nil && !f.After(*inicio) {
			f = inicio.AddDate(0, 0, 1)
		}
		fim = &f
	}
	if inicio == nil {
		i := fim.AddDate(0, 0, -diasResumoPadrao)
		inicio = &i
	}
	return *inicio, *fim, nil
}

func (s *relatorioService) Resumo(ctx context.Context, filter dto.ResumoFilter) (*dto.RelatorioResumo, error) {
	inicio, fim, err := s.periodoResumo(filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.RelatorioResumo{Periodo: dto.Periodo{Inicio: inicio, Fim: fim.AddDate(0, 0, -1)}}
	if resp.TotalProdutos, err = s.produtos.Count(ctx); err != nil {
		return nil, err
	}
	if resp.TotalUnidades, err = s.estoques.SomaTotal(ctx); err != nil {
		return nil, err
	}
	resp.TotalVendas, resp.UnidadesVendidas, err = s.vendas.Totais(ctx, repository.VendaFiltro{Inicio: &inicio, Fim: &fim})
	if err != nil {
		return nil, err
	}
	if resp.MovimentacoesPorTipo, err = s.movimentacoes.CountPorTipo(ctx, inicio, fim); err != nil {
		return nil, err
	}

	alerta, err := s.produtos.ComAlerta(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(alerta))
	for i, p := range alerta {
		ids[i] = p.ID
	}
	somas, err := s.estoques.SomaPorProdutos(ctx, ids)
	if err != nil {
		return nil, err
	}
	resp.ProdutosEmAlerta = make([]dto.ProdutoResponse, len(alerta))
	for i := range alerta {
		resp.ProdutosEmAlerta[i] = produtoToResponse(&alerta[i], somas[alerta[i].ID])
	}
	return resp, nil
}

// ── v2 ────────────────────────────────────────────────────────────────────────

func (s *relatorioService) Dados(ctx context.Context, filter dto.RelatorioFilter) (*dto.RelatorioDados, error) {
	if filter.DataInicio == "" || filter.DataFim == "" {
		return nil, apierror.Validacao(apierror.CodigoValidacao, "dataInicio e dataFim são obrigatórias")
	}
	inicio, fim, err := intervaloDatas(filter.DataInicio, filter.DataFim)
	if err != nil {
		return nil, err
	}
	// vendasPorDia zero-fills every day, so the range is capped.
	if fim.After(inicio.AddDate(0, 0, s.maxDias)) {
		return nil, apierror.Validacao(apierror.CodigoValidacao,
			fmt.Sprintf("O período do relatório não pode passar de %d dias", s.maxDias))
	}
	metodo := filter.MetodoCalculo
	if metodo == "" {
		metodo = dto.MetodoQuantidade
	}
	filter.MetodoCalculo = metodo

	f := repository.FiltroVendas{
		Inicio:       *inicio,
		Fim:          *fim,
		Tipo:         filter.Tipo,
		Categoria:    filter.Categoria,
		Subcategoria: filter.Subcategoria,
		LocalID:      filter.Local,
	}

	produtos, err := s.relatorios.AgregadoProdutos(ctx, f)
	if err != nil {
		return nil, err
	}
	categorias, err := s.relatorios.AgregadoCategorias(ctx, f)
	if err != nil {
		return nil, err
	}
	locais, err := s.relatorios.AgregadoLocais(ctx, f)
	if err != nil {
		return nil, err
	}
	pontos, err := s.relatorios.VendasNoPeriodo(ctx, f)
	if err != nil {
		return nil, err
	}

	dias := vendasPorDia(*inicio, *fim, pontos)
	resp := &dto.RelatorioDados{
		Periodo:            dto.Periodo{Inicio: *inicio, Fim: fim.AddDate(0, 0, -1)},
		MetodoCalculo:      metodo,
		Filtros:            filter,
		TopProdutos:        rankingProdutos(produtos, metodo, s.topN),
		VendasPorDia:       dias,
		VendasPorCategoria: rankingCategorias(categorias, metodo),
		VendasPorLocal:     rankingLocais(locais, metodo),
	}
	for _, p := range pontos {
		resp.Resumo.TotalVendas++
		resp.Resumo.TotalUnidades += p.Quantidade
	}
	resp.Resumo.ProdutosDistintos = int64(len(produtos))
	if len(dias) > 0 {
		resp.Resumo.MediaDiaria = decimal.NewFromInt(resp.Resumo.TotalUnidades).
			Div(decimal.NewFromInt(int64(len(dias)))).
			Round(2)
	}
	return resp, nil
}

func metrica(metodo string, transacoes, quantidade int64) int64 {
	if metodo == dto.MetodoTransacoes {
		return transacoes
	}
	return quantidade
}

// rankingProdutos orders by the chosen metric (ties by name), keeps the top
// n and computes each share over the rows kept.
func rankingProdutos(rows []repository.AgregadoProduto, metodo string, n int) []dto.RankingProduto {
	sort.SliceStable(rows, func(a, b int) bool {
		ma := metrica(metodo, rows[a].Transacoes, rows[a].Quantidade)
		mb := metrica(metodo, rows[b].Transacoes, rows[b].Quantidade)
		if ma != mb {
			return ma > mb
		}
		return rows[a].Nome < rows[b].Nome
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	valores := make([]int64, len(rows))
	for i, r := range rows {
		valores[i] = metrica(metodo, r.Transacoes, r.Quantidade)
	}
	pct := percentuais(valores)

	out := make([]dto.RankingProduto, len(rows))
	for i, r := range rows {
		out[i] = dto.RankingProduto{
			Posicao:    i + 1,
			ProdutoID:  r.ProdutoID,
			Nome:       r.Nome,
			Categoria:  r.Categoria,
			Transacoes: r.Transacoes,
			Quantidade: r.Quantidade,
			Percentual: pct[i],
		}
	}
	return out
}

func rankingCategorias(rows []repository.AgregadoCategoria, metodo string) []dto.RankingCategoria {
	sort.SliceStable(rows, func(a, b int) bool {
		ma := metrica(metodo, rows[a].Transacoes, rows[a].Quantidade)
		mb := metrica(metodo, rows[b].Transacoes, rows[b].Quantidade)
		if ma != mb {
			return ma > mb
		}
		return rows[a].Categoria < rows[b].Categoria
	})
	valores := make([]int64, len(rows))
	for i, r := range rows {
		valores[i] = metrica(metodo, r.Transacoes, r.Quantidade)
	}
	pct := percentuais(valores)

	out := make([]dto.RankingCategoria, len(rows))
	for i, r := range rows {
		out[i] = dto.RankingCategoria{
			Categoria:  r.Categoria,
			Transacoes: r.Transacoes,
			Quantidade: r.Quantidade,
			Percentual: pct[i],
		}
	}
	return out
}

func rankingLocais(rows []repository.AgregadoLocal, metodo string) []dto.RankingLocal {
	sort.SliceStable(rows, func(a, b int) bool {
		ma := metrica(metodo, rows[a].Transacoes, rows[a].Quantidade)
		mb := metrica(metodo, rows[b].Transacoes, rows[b].Quantidade)
		if ma != mb {
			return ma > mb
		}
		return rows[a].LocalNome < rows[b].LocalNome
	})
	valores := make([]int64, len(rows))
	for i, r := range rows {
		valores[i] = metrica(metodo, r.Transacoes, r.Quantidade)
	}
	pct := percentuais(valores)

	out := make([]dto.RankingLocal, len(rows))
	for i, r := range rows {
		out[i] = dto.RankingLocal{
			LocalID:    r.LocalID,
			LocalNome:  r.LocalNome,
			Transacoes: r.Transacoes,
			Quantidade: r.Quantidade,
			Percentual: pct[i],
		}
	}
	return out
}

// vendasPorDia buckets sales by local calendar day over [inicio, fim),
// emitting every day of the range even when it had no sales.
func vendasPorDia(inicio, fim time.Time, pontos []repository.VendaPonto) []dto.VendasDia {
	var dias []dto.VendasDia
	indice := make(map[string]int)
	for d := inicioDoDia(inicio); d.Before(fim); d = d.AddDate(0, 0, 1) {
		chave := d.Format(layoutData)
		indice[chave] = len(dias)
		dias = append(dias, dto.VendasDia{Data: chave})
	}
	for _, p := range pontos {
		i, ok := indice[p.DataVenda.In(inicio.Location()).Format(layoutData)]
		if !ok {
			continue
		}
		dias[i].Transacoes++
		dias[i].Quantidade += p.Quantidade
	}
	if dias == nil {
		dias = []dto.VendasDia{}
	}
	return dias
}

// ── PDF ───────────────────────────────────────────────────────────────────────

func (s *relatorioService) PDFResumo(ctx context.Context, filter dto.ResumoFilter) ([]byte, error) {
	r, err := s.Resumo(ctx, filter)
	if err != nil {
		return nil, err
	}

	doc := infra.RelatorioPDF{
		Titulo:    "Relatório de Estoque e Vendas",
		Subtitulo: []string{"Período: " + formatarPeriodo(r.Periodo)},
		Resumo: [][2]string{
			{"Produtos cadastrados", formatarInt(r.TotalProdutos)},
			{"Unidades em estoque", formatarInt(r.TotalUnidades)},
			{"Vendas no período", formatarInt(r.TotalVendas)},
			{"Unidades vendidas", formatarInt(r.UnidadesVendidas)},
		},
		GeradoEm: s.agora(),
	}
	for _, tipo := range []string{model.MovEntrada, model.MovSaida, model.MovTransferencia, model.MovVenda} {
		doc.Resumo = append(doc.Resumo, [2]string{"Movimentações: " + tipo, formatarInt(r.MovimentacoesPorTipo[tipo])})
	}

	alerta := infra.TabelaPDF{
		Titulo: "Produtos com alerta de estoque",
		Colunas: []infra.ColunaPDF{
			{Titulo: "Código", Largura: 0.15},
			{Titulo: "Produto", Largura: 0.40},
			{Titulo: "Categoria", Largura: 0.20},
			{Titulo: "Total", Largura: 0.10, Alinhamento: "R"},
			{Titulo: "Situação", Largura: 0.15, Alinhamento: "C"},
		},
		Vazia: "Nenhum produto com alerta",
	}
	for _, p := range r.ProdutosEmAlerta {
		alerta.Linhas = append(alerta.Linhas, []string{
			p.ID, p.Nome, p.Categoria, formatarInt(p.QuantidadeTotal), situacao(p),
		})
	}
	doc.Tabelas = []infra.TabelaPDF{alerta}
	return renderizar(doc)
}

func (s *relatorioService) PDFDados(ctx context.Context, filter dto.RelatorioFilter) ([]byte, error) {
	r, err := s.Dados(ctx, filter)
	if err != nil {
		return nil, err
	}

	doc := infra.RelatorioPDF{
		Titulo:    "Relatório de Vendas",
		Subtitulo: []string{"Período: " + formatarPeriodo(r.Periodo), "Métrica: " + r.MetodoCalculo},
		Resumo: [][2]string{
			{"Total de vendas", formatarInt(r.Resumo.TotalVendas)},
			{"Unidades vendidas", formatarInt(r.Resumo.TotalUnidades)},
			{"Produtos distintos", formatarInt(r.Resumo.ProdutosDistintos)},
			{"Média diária de unidades", r.Resumo.MediaDiaria.StringFixed(2)},
		},
		GeradoEm: s.agora(),
	}
	if filtros := descreverFiltros(ctx, s.locais, r.Filtros); filtros != "" {
		doc.Subtitulo = append(doc.Subtitulo, "Filtros: "+filtros)
	}

	top := infra.TabelaPDF{
		Titulo: fmt.Sprintf("Top %d produtos", s.topN),
		Colunas: []infra.ColunaPDF{
			{Titulo: "#", Largura: 0.06, Alinhamento: "C"},
			{Titulo: "Produto", Largura: 0.38},
			{Titulo: "Categoria", Largura: 0.20},
			{Titulo: "Transações", Largura: 0.12, Alinhamento: "R"},
			{Titulo: "Unidades", Largura: 0.12, Alinhamento: "R"},
			{Titulo: "%", Largura: 0.12, Alinhamento: "R"},
		},
		Vazia: "Nenhuma venda no período",
	}
	for _, p := range r.TopProdutos {
		top.Linhas = append(top.Linhas, []string{
			strconv.Itoa(p.Posicao), p.Nome, p.Categoria,
			formatarInt(p.Transacoes), formatarInt(p.Quantidade), p.Percentual.StringFixed(2),
		})
	}

	categorias := infra.TabelaPDF{
		Titulo: "Vendas por categoria",
		Colunas: []infra.ColunaPDF{
			{Titulo: "Categoria", Largura: 0.52},
			{Titulo: "Transações", Largura: 0.16, Alinhamento: "R"},
			{Titulo: "Unidades", Largura: 0.16, Alinhamento: "R"},
			{Titulo: "%", Largura: 0.16, Alinhamento: "R"},
		},
		Vazia: "Nenhuma venda no período",
	}
	for _, c := range r.VendasPorCategoria {
		categorias.Linhas = append(categorias.Linhas, []string{
			c.Categoria, formatarInt(c.Transacoes), formatarInt(c.Quantidade), c.Percentual.StringFixed(2),
		})
	}

	locais := infra.TabelaPDF{
		Titulo: "Vendas por local",
		Colunas: []infra.ColunaPDF{
			{Titulo: "Local", Largura: 0.52},
			{Titulo: "Transações", Largura: 0.16, Alinhamento: "R"},
			{Titulo: "Unidades", Largura: 0.16, Alinhamento: "R"},
			{Titulo: "%", Largura: 0.16, Alinhamento: "R"},
		},
		Vazia: "Nenhuma venda no período",
	}
	for _, l := range r.VendasPorLocal {
		locais.Linhas = append(locais.Linhas, []string{
			l.LocalNome, formatarInt(l.Transacoes), formatarInt(l.Quantidade), l.Percentual.StringFixed(2),
		})
	}

	dias := infra.TabelaPDF{
		Titulo: "Vendas por dia",
		Colunas: []infra.ColunaPDF{
			{Titulo: "Data", Largura: 0.40},
			{Titulo: "Transações", Largura: 0.30, Alinhamento: "R"},
			{Titulo: "Unidades", Largura: 0.30, Alinhamento: "R"},
		},
	}
	for _, d := range r.VendasPorDia {
		data := d.Data
		if t, err := time.Parse(layoutData, d.Data); err == nil {
			data = t.Format("02/01/2006")
		}
		dias.Linhas = append(dias.Linhas, []string{data, formatarInt(d.Transacoes), formatarInt(d.Quantidade)})
	}

	doc.Tabelas = []infra.TabelaPDF{top, categorias, locais, dias}
	return renderizar(doc)
}

func renderizar(doc infra.RelatorioPDF) ([]byte, error) {
	var buf bytes.Buffer
	if err := infra.GerarRelatorioPDF(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatarPeriodo(p dto.Periodo) string {
	return p.Inicio.Format("02/01/2006") + " a " + p.Fim.Format("02/01/2006")
}

func formatarInt(n int64) string { return strconv.FormatInt(n, 10) }

func situacao(p dto.ProdutoResponse) string {
	var s []string
	if p.TemEstoqueZerado {
		s = append(s, "zerado")
	}
	if p.TemEstoqueCritico {
		s = append(s, "crítico")
	}
	if p.TemEstoqueBaixo {
		s = append(s, "baixo")
	}
	return strings.Join(s, ", ")
}

func descreverFiltros(ctx context.Context, locais repository.LocalRepository, f dto.RelatorioFilter) string {
	var partes []string
	if f.Tipo != "" {
		partes = append(partes, "tipo "+f.Tipo)
	}
	if f.Categoria != "" {
		partes = append(partes, "categoria "+f.Categoria)
	}
	if f.Subcategoria != "" {
		partes = append(partes, "subcategoria "+f.Subcategoria)
	}
	if f.Local != "" {
		nome := f.Local
		if nomes, err := locais.Nomes(ctx, []string{f.Local}); err == nil && nomes[f.Local] != "" {
			nome = nomes[f.Local]
		}
		partes = append(partes, "local "+nome)
	}
	return strings.Join(partes, "; ")
}
