package repository

import (
	"context"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendaFiltro struct {
	ProdutoID string
	LocalID   string
	Inicio    *time.Time
	Fim       *time.Time // exclusive
	Offset    int
	Limit     int
}

type VendaDetalhe struct {
	ID             uuid.UUID
	ProdutoID      string
	ProdutoNome    *string
	Quantidade     int
	LocalID        string
	LocalNome      *string
	DataVenda      time.Time
	UsuarioID      *uuid.UUID
	UsuarioNome    *string
	MovimentacaoID *uuid.UUID
}

type VendaRepository interface {
	Create(ctx context.Context, v *model.Venda) error
	List(ctx context.Context, f VendaFiltro) ([]VendaDetalhe, int64, error)
	// Totais returns the number of sales and units sold matching f (paging ignored).
	Totais(ctx context.Context, f VendaFiltro) (vendas, unidades int64, err error)
	CountOrfas(ctx context.Context) (int64, error)
	DeleteOrfas(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) VendaRepository
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) WithTx(tx *gorm.DB) VendaRepository { return &vendaRepo{db: tx} }

func (r *vendaRepo) Create(ctx context.Context, v *model.Venda) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendaRepo) filtrar(ctx context.Context, f VendaFiltro) *gorm.DB {
	q := r.db.WithContext(ctx).Table("vendas AS v")
	if f.ProdutoID != "" {
		q = q.Where("v.produto_id = ?", f.ProdutoID)
	}
	if f.LocalID != "" {
		q = q.Where("v.local_id = ?", f.LocalID)
	}
	if f.Inicio != nil {
		q = q.Where("v.data_venda >= ?", *f.Inicio)
	}
	if f.Fim != nil {
		q = q.Where("v.data_venda < ?", *f.Fim)
	}
	return q
}

func (r *vendaRepo) List(ctx context.Context, f VendaFiltro) ([]VendaDetalhe, int64, error) {
	var rows []VendaDetalhe
	var total int64

	q := r.filtrar(ctx, f)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Joins("LEFT JOIN produtos p ON p.id = v.produto_id").
		Joins("LEFT JOIN locais l ON l.id = v.local_id").
		Joins("LEFT JOIN usuarios u ON u.id = v.usuario_id").
		Select(`v.id, v.produto_id, p.nome AS produto_nome, v.quantidade, v.local_id, l.nome AS local_nome,
			v.data_venda, v.usuario_id, u.nome AS usuario_nome, v.movimentacao_id`).
		Order("v.data_venda DESC").
		Limit(f.Limit).Offset(f.Offset).
		Scan(&rows).Error
	return rows, total, err
}

func (r *vendaRepo) Totais(ctx context.Context, f VendaFiltro) (int64, int64, error) {
	var row struct {
		Vendas   int64
		Unidades int64
	}
	err := r.filtrar(ctx, f).
		Select("COUNT(*) AS vendas, COALESCE(SUM(v.quantidade), 0) AS unidades").
		Scan(&row).Error
	return row.Vendas, row.Unidades, err
}

func (r *vendaRepo) CountOrfas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venda{}).Where(semProduto).Count(&n).Error
	return n, err
}

func (r *vendaRepo) DeleteOrfas(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where(semProduto).Delete(&model.Venda{})
	return res.RowsAffected, res.Error
}
