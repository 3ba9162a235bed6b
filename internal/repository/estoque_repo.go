package repository

import (
	"context"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Faixa is a quantity range [Min, Max).
type Faixa struct {
	Min int
	Max int
}

type EstoqueFiltro struct {
	ProdutoID string
	LocalID   string
	Faixa     *Faixa
	Offset    int
	Limit     int
}

// EstoqueDetalhe is a stock row with product and location names resolved.
// Names are nil when the referenced row no longer exists.
type EstoqueDetalhe struct {
	ID                uuid.UUID
	ProdutoID         string
	ProdutoNome       *string
	LocalID           string
	LocalNome         *string
	Quantidade        int
	UltimaAtualizacao time.Time
}

// EstoqueRepository is the only write path to estoques. Quantities are never
// read and written back: Incrementar and DecrementarSeDisponivel are single
// conditional statements, so concurrent writers cannot lose updates.
type EstoqueRepository interface {
	// Incrementar adds qtd to (produto, local), creating the row if needed.
	Incrementar(ctx context.Context, produtoID, localID string, qtd int, usuarioID *uuid.UUID) error
	// DecrementarSeDisponivel subtracts qtd only when the row holds at least qtd.
	// It reports false, with no change, when the row is missing or short.
	DecrementarSeDisponivel(ctx context.Context, produtoID, localID string, qtd int, usuarioID *uuid.UUID) (bool, error)

	Find(ctx context.Context, produtoID, localID string) (*model.Estoque, error)
	ListByProduto(ctx context.Context, produtoID string) ([]model.Estoque, error)
	List(ctx context.Context, f EstoqueFiltro) ([]EstoqueDetalhe, int64, error)
	AbaixoDe(ctx context.Context, limite, n int) ([]EstoqueDetalhe, error)
	SomaPorProdutos(ctx context.Context, ids []string) (map[string]int64, error)
	SomaTotal(ctx context.Context) (int64, error)
	ProdutosNaFaixa(ctx context.Context, f Faixa) ([]string, error)
	ExisteSaldoNoLocal(ctx context.Context, localID string) (bool, error)
	DeleteByProduto(ctx context.Context, produtoID string) error
	DeleteByLocal(ctx context.Context, localID string) error
	WithTx(tx *gorm.DB) EstoqueRepository
}

type estoqueRepo struct{ db *gorm.DB }

func NewEstoqueRepository(db *gorm.DB) EstoqueRepository { return &estoqueRepo{db: db} }

func (r *estoqueRepo) WithTx(tx *gorm.DB) EstoqueRepository { return &estoqueRepo{db: tx} }

func (r *estoqueRepo) Incrementar(ctx context.Context, produtoID, localID string, qtd int, usuarioID *uuid.UUID) error {
	now := time.Now()
	row := model.Estoque{
		ProdutoID:         produtoID,
		LocalID:           localID,
		Quantidade:        qtd,
		UltimaAtualizacao: now,
		AtualizadoPor:     usuarioID,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "produto_id"}, {Name: "local_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantidade":         gorm.Expr("estoques.quantidade + ?", qtd),
			"ultima_atualizacao": now,
			"atualizado_por":     usuarioID,
		}),
	}).Create(&row).Error
}

func (r *estoqueRepo) DecrementarSeDisponivel(ctx context.Context, produtoID, localID string, qtd int, usuarioID *uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Estoque{}).
		Where("produto_id = ? AND local_id = ? AND quantidade >= ?", produtoID, localID, qtd).
		UpdateColumns(map[string]any{
			"quantidade":         gorm.Expr("quantidade - ?", qtd),
			"ultima_atualizacao": time.Now(),
			"atualizado_por":     usuarioID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *estoqueRepo) Find(ctx context.Context, produtoID, localID string) (*model.Estoque, error) {
	var e model.Estoque
	err := r.db.WithContext(ctx).
		Where("produto_id = ? AND local_id = ?", produtoID, localID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estoqueRepo) ListByProduto(ctx context.Context, produtoID string) ([]model.Estoque, error) {
	var rows []model.Estoque
	err := r.db.WithContext(ctx).Where("produto_id = ?", produtoID).Order("local_id").Find(&rows).Error
	return rows, err
}

func (r *estoqueRepo) detalhes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("estoques AS e").
		Joins("LEFT JOIN produtos p ON p.id = e.produto_id").
		Joins("LEFT JOIN locais l ON l.id = e.local_id")
}

const estoqueDetalheCols = "e.id, e.produto_id, p.nome AS produto_nome, e.local_id, l.nome AS local_nome, e.quantidade, e.ultima_atualizacao"

func (r *estoqueRepo) List(ctx context.Context, f EstoqueFiltro) ([]EstoqueDetalhe, int64, error) {
	var rows []EstoqueDetalhe
	var total int64

	q := r.detalhes(ctx)
	if f.ProdutoID != "" {
		q = q.Where("e.produto_id = ?", f.ProdutoID)
	}
	if f.LocalID != "" {
		q = q.Where("e.local_id = ?", f.LocalID)
	}
	if f.Faixa != nil {
		q = q.Where("e.quantidade >= ? AND e.quantidade < ?", f.Faixa.Min, f.Faixa.Max)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Select(estoqueDetalheCols).
		Order("p.nome ASC, l.nome ASC").
		Limit(f.Limit).Offset(f.Offset).
		Scan(&rows).Error
	return rows, total, err
}

func (r *estoqueRepo) AbaixoDe(ctx context.Context, limite, n int) ([]EstoqueDetalhe, error) {
	var rows []EstoqueDetalhe
	err := r.detalhes(ctx).
		Select(estoqueDetalheCols).
		Where("e.quantidade < ?", limite).
		Order("e.quantidade ASC, p.nome ASC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (r *estoqueRepo) SomaPorProdutos(ctx context.Context, ids []string) (map[string]int64, error) {
	somas := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return somas, nil
	}
	var rows []struct {
		ProdutoID string
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&model.Estoque{}).
		Select("produto_id, SUM(quantidade) AS total").
		Where("produto_id IN ?", ids).
		Group("produto_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		somas[row.ProdutoID] = row.Total
	}
	return somas, nil
}

func (r *estoqueRepo) SomaTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Estoque{}).
		Select("COALESCE(SUM(quantidade), 0)").
		Scan(&total).Error
	return total, err
}

func (r *estoqueRepo) ProdutosNaFaixa(ctx context.Context, f Faixa) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Estoque{}).
		Where("quantidade >= ? AND quantidade < ?", f.Min, f.Max).
		Distinct().
		Pluck("produto_id", &ids).Error
	return ids, err
}

func (r *estoqueRepo) ExisteSaldoNoLocal(ctx context.Context, localID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Estoque{}).
		Where("local_id = ? AND quantidade > 0", localID).
		Count(&n).Error
	return n > 0, err
}

func (r *estoqueRepo) DeleteByProduto(ctx context.Context, produtoID string) error {
	return r.db.WithContext(ctx).Where("produto_id = ?", produtoID).Delete(&model.Estoque{}).Error
}

func (r *estoqueRepo) DeleteByLocal(ctx context.Context, localID string) error {
	return r.db.WithContext(ctx).Where("local_id = ?", localID).Delete(&model.Estoque{}).Error
}
