package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// FiltroVendas selects the sales a report aggregates over. Product filters
// only match sales whose product still exists.
type FiltroVendas struct {
	Inicio       time.Time
	Fim          time.Time // exclusive
	Tipo         string
	Categoria    string
	Subcategoria string
	LocalID      string
}

type AgregadoProduto struct {
	ProdutoID  string
	Nome       string
	Categoria  string
	Transacoes int64
	Quantidade int64
}

type AgregadoCategoria struct {
	Categoria  string
	Transacoes int64
	Quantidade int64
}

type AgregadoLocal struct {
	LocalID    string
	LocalNome  string
	Transacoes int64
	Quantidade int64
}

type VendaPonto struct {
	DataVenda  time.Time
	Quantidade int64
}

type ProdutosPorCategoria struct {
	Categoria string
	Produtos  int64
	Unidades  int64
}

// RelatorioRepository runs the read-only aggregations behind reports and the dashboard.
type RelatorioRepository interface {
	AgregadoProdutos(ctx context.Context, f FiltroVendas) ([]AgregadoProduto, error)
	AgregadoCategorias(ctx context.Context, f FiltroVendas) ([]AgregadoCategoria, error)
	AgregadoLocais(ctx context.Context, f FiltroVendas) ([]AgregadoLocal, error)
	VendasNoPeriodo(ctx context.Context, f FiltroVendas) ([]VendaPonto, error)
	ProdutosPorCategoria(ctx context.Context) ([]ProdutosPorCategoria, error)
}

type relatorioRepo struct{ db *gorm.DB }

func NewRelatorioRepository(db *gorm.DB) RelatorioRepository { return &relatorioRepo{db: db} }

const nomeProdutoRemovido = "'Produto removido'"

func (r *relatorioRepo) vendas(ctx context.Context, f FiltroVendas) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("vendas AS v").
		Joins("LEFT JOIN produtos p ON p.id = v.produto_id").
		Where("v.data_venda >= ? AND v.data_venda < ?", f.Inicio, f.Fim)
	if f.Tipo != "" {
		q = q.Where("p.tipo = ?", f.Tipo)
	}
	if f.Categoria != "" {
		q = q.Where("p.categoria = ?", f.Categoria)
	}
	if f.Subcategoria != "" {
		q = q.Where("p.subcategoria = ?", f.Subcategoria)
	}
	if f.LocalID != "" {
		q = q.Where("v.local_id = ?", f.LocalID)
	}
	return q
}

func (r *relatorioRepo) AgregadoProdutos(ctx context.Context, f FiltroVendas) ([]AgregadoProduto, error) {
	var rows []AgregadoProduto
	err := r.vendas(ctx, f).
		Select(`v.produto_id,
			COALESCE(p.nome, ` + nomeProdutoRemovido + `) AS nome,
			COALESCE(p.categoria, ` + nomeProdutoRemovido + `) AS categoria,
			COUNT(*) AS transacoes,
			COALESCE(SUM(v.quantidade), 0) AS quantidade`).
		Group("v.produto_id, p.nome, p.categoria").
		Scan(&rows).Error
	return rows, err
}

func (r *relatorioRepo) AgregadoCategorias(ctx context.Context, f FiltroVendas) ([]AgregadoCategoria, error) {
	var rows []AgregadoCategoria
	err := r.vendas(ctx, f).
		Select(`COALESCE(p.categoria, ` + nomeProdutoRemovido + `) AS categoria,
			COUNT(*) AS transacoes,
			COALESCE(SUM(v.quantidade), 0) AS quantidade`).
		Group("p.categoria").
		Scan(&rows).Error
	return rows, err
}

func (r *relatorioRepo) AgregadoLocais(ctx context.Context, f FiltroVendas) ([]AgregadoLocal, error) {
	var rows []AgregadoLocal
	err := r.vendas(ctx, f).
		Joins("LEFT JOIN locais l ON l.id = v.local_id").
		Select(`v.local_id,
			COALESCE(l.nome, v.local_id) AS local_nome,
			COUNT(*) AS transacoes,
			COALESCE(SUM(v.quantidade), 0) AS quantidade`).
		Group("v.local_id, l.nome").
		Scan(&rows).Error
	return rows, err
}

func (r *relatorioRepo) VendasNoPeriodo(ctx context.Context, f FiltroVendas) ([]VendaPonto, error) {
	var rows []VendaPonto
	err := r.vendas(ctx, f).
		Select("v.data_venda, v.quantidade").
		Order("v.data_venda").
		Scan(&rows).Error
	return rows, err
}

func (r *relatorioRepo) ProdutosPorCategoria(ctx context.Context) ([]ProdutosPorCategoria, error) {
	var rows []ProdutosPorCategoria
	err := r.db.WithContext(ctx).
		Table("produtos AS p").
		Joins("LEFT JOIN (SELECT produto_id, SUM(quantidade) AS total FROM estoques GROUP BY produto_id) e ON e.produto_id = p.id").
		Select("p.categoria, COUNT(*) AS produtos, CAST(COALESCE(SUM(e.total), 0) AS BIGINT) AS unidades").
		Group("p.categoria").
		Order("unidades DESC, p.categoria ASC").
		Scan(&rows).Error
	return rows, err
}
