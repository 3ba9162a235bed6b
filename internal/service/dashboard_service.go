package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	chaveCacheMetricas = "estoque:dashboard:metricas"
	diasGraficoVendas  = 7
	topDashboard       = 5
	produtosRecentes   = 5
	ultimasTransacoes  = 10
	limiteEstoqueBaixo = 50
)

type DashboardService interface {
	Metricas(ctx context.Context) (*dto.DashboardMetricas, error)
	ProdutosRecentes(ctx context.Context) ([]dto.ProdutoResponse, error)
	VendasSemana(ctx context.Context) ([]dto.VendasDia, error)
	TopProdutos(ctx context.Context) ([]dto.RankingProduto, error)
	EstoqueBaixo(ctx context.Context) ([]dto.EstoqueResponse, error)
	Categorias(ctx context.Context) ([]dto.CategoriaResumo, error)
	Transacoes(ctx context.Context) ([]dto.MovimentacaoResponse, error)
}

type dashboardService struct {
	produtos      repository.ProdutoRepository
	estoques      repository.EstoqueRepository
	movimentacoes repository.MovimentacaoRepository
	vendas        repository.VendaRepository
	locais        repository.LocalRepository
	relatorios    repository.RelatorioRepository
	limites       LimitesEstoque
	rdb           *redis.Client // nil disables the cache
	ttl           time.Duration
	agora         func() time.Time
}

func NewDashboardService(
	produtos repository.ProdutoRepository,
	estoques repository.EstoqueRepository,
	movimentacoes repository.MovimentacaoRepository,
	vendas repository.VendaRepository,
	locais repository.LocalRepository,
	relatorios repository.RelatorioRepository,
	limites LimitesEstoque,
	rdb *redis.Client,
	ttl time.Duration,
) DashboardService {
	return &dashboardService{
		produtos:      produtos,
		estoques:      estoques,
		movimentacoes: movimentacoes,
		vendas:        vendas,
		locais:        locais,
		relatorios:    relatorios,
		limites:       limites,
		rdb:           rdb,
		ttl:           ttl,
		agora:         time.Now,
	}
}

// Metricas serves the headline counters, from Redis when a fresh copy is
// cached. Cache errors only cost a recomputation.
func (s *dashboardService) Metricas(ctx context.Context) (*dto.DashboardMetricas, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, chaveCacheMetricas).Bytes(); err == nil {
			var m dto.DashboardMetricas
			if json.Unmarshal(raw, &m) == nil {
				return &m, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("dashboard: leitura do cache falhou")
		}
	}

	m, err := s.calcularMetricas(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil && s.ttl > 0 {
		if raw, err := json.Marshal(m); err == nil {
			if err := s.rdb.Set(ctx, chaveCacheMetricas, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard: escrita do cache falhou")
			}
		}
	}
	return m, nil
}

func (s *dashboardService) calcularMetricas(ctx context.Context) (*dto.DashboardMetricas, error) {
	hoje := inicioDoDia(s.agora())
	amanha := hoje.AddDate(0, 0, 1)
	mes := time.Date(hoje.Year(), hoje.Month(), 1, 0, 0, 0, 0, hoje.Location())

	m := &dto.DashboardMetricas{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		m.TotalProdutos, err = s.produtos.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		m.TotalUnidades, err = s.estoques.SomaTotal(ctx)
		return err
	})
	g.Go(func() (err error) {
		m.ProdutosEstoqueBaixo, err = s.produtos.CountFlag(ctx, repository.FlagBaixo)
		return err
	})
	g.Go(func() (err error) {
		m.ProdutosEstoqueCritico, err = s.produtos.CountFlag(ctx, repository.FlagCritico)
		return err
	})
	g.Go(func() (err error) {
		m.ProdutosEstoqueZerado, err = s.produtos.CountFlag(ctx, repository.FlagZerado)
		return err
	})
	g.Go(func() (err error) {
		m.VendasHoje, m.UnidadesVendidasHoje, err = s.vendas.Totais(ctx, repository.VendaFiltro{Inicio: &hoje, Fim: &amanha})
		return err
	})
	g.Go(func() (err error) {
		m.VendasMes, m.UnidadesVendidasMes, err = s.vendas.Totais(ctx, repository.VendaFiltro{Inicio: &mes, Fim: &amanha})
		return err
	})
	g.Go(func() (err error) {
		m.MovimentacoesHoje, err = s.movimentacoes.CountDesde(ctx, hoje)
		return err
	})
	g.Go(func() (err error) {
		m.TotalLocais, err = s.locais.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *dashboardService) ProdutosRecentes(ctx context.Context) ([]dto.ProdutoResponse, error) {
	produtos, err := s.produtos.Recentes(ctx, produtosRecentes)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(produtos))
	for i, p := range produtos {
		ids[i] = p.ID
	}
	somas, err := s.estoques.SomaPorProdutos(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdutoResponse, len(produtos))
	for i := range produtos {
		out[i] = produtoToResponse(&produtos[i], somas[produtos[i].ID])
	}
	return out, nil
}

func (s *dashboardService) VendasSemana(ctx context.Context) ([]dto.VendasDia, error) {
	fim := inicioDoDia(s.agora()).AddDate(0, 0, 1)
	inicio := fim.AddDate(0, 0, -diasGraficoVendas)
	pontos, err := s.relatorios.VendasNoPeriodo(ctx, repository.FiltroVendas{Inicio: inicio, Fim: fim})
	if err != nil {
		return nil, err
	}
	return vendasPorDia(inicio, fim, pontos), nil
}

func (s *dashboardService) TopProdutos(ctx context.Context) ([]dto.RankingProduto, error) {
	hoje := inicioDoDia(s.agora())
	mes := time.Date(hoje.Year(), hoje.Month(), 1, 0, 0, 0, 0, hoje.Location())
	rows, err := s.relatorios.AgregadoProdutos(ctx, repository.FiltroVendas{Inicio: mes, Fim: hoje.AddDate(0, 0, 1)})
	if err != nil {
		return nil, err
	}
	return rankingProdutos(rows, dto.MetodoQuantidade, topDashboard), nil
}

func (s *dashboardService) EstoqueBaixo(ctx context.Context) ([]dto.EstoqueResponse, error) {
	rows, err := s.estoques.AbaixoDe(ctx, s.limites.Baixo, limiteEstoqueBaixo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstoqueResponse, len(rows))
	for i, r := range rows {
		out[i] = estoqueToResponse(r, s.limites)
	}
	return out, nil
}

func (s *dashboardService) Categorias(ctx context.Context) ([]dto.CategoriaResumo, error) {
	rows, err := s.relatorios.ProdutosPorCategoria(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResumo, len(rows))
	for i, r := range rows {
		out[i] = dto.CategoriaResumo{Categoria: r.Categoria, Produtos: r.Produtos, Unidades: r.Unidades}
	}
	return out, nil
}

func (s *dashboardService) Transacoes(ctx context.Context) ([]dto.MovimentacaoResponse, error) {
	rows, _, err := s.movimentacoes.List(ctx, repository.MovimentacaoFiltro{Limit: ultimasTransacoes})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimentacaoResponse, len(rows))
	for i := range rows {
		out[i] = movimentacaoToResponse(&rows[i])
	}
	return out, nil
}
