package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"gorm.io/gorm"
)

// Flag columns on produtos.
const (
	FlagBaixo   = "tem_estoque_baixo"
	FlagCritico = "tem_estoque_critico"
	FlagZerado  = "tem_estoque_zerado"
)

// CategoriaLinha is one distinct (tipo, categoria, subcategoria) triple.
type CategoriaLinha struct {
	Tipo         string
	Categoria    string
	Subcategoria string
}

// ProdutoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id string) (*model.Produto, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Recentes(ctx context.Context, n int) ([]model.Produto, error)
	ComAlerta(ctx context.Context) ([]model.Produto, error)
	Update(ctx context.Context, p *model.Produto) error
	Delete(ctx context.Context, id string) error
	Categorias(ctx context.Context) ([]CategoriaLinha, error)
	Count(ctx context.Context) (int64, error)
	CountFlag(ctx context.Context, coluna string) (int64, error)

	// IDsComPrefixo lists codes starting with prefixo that are taken, either by
	// a live product or by history (stock, movements, sales) a removed product
	// left behind.
	IDsComPrefixo(ctx context.Context, prefixo string) ([]string, error)

	// ProximaSequencia bumps and returns the product's movement counter. On
	// Postgres the UPDATE row-locks the product until the transaction ends,
	// serialising concurrent movement writers for the same product.
	ProximaSequencia(ctx context.Context, id string) (int64, error)
	// Travar takes the same row lock as ProximaSequencia without consuming a number.
	Travar(ctx context.Context, id string) error

	AtualizarFlags(ctx context.Context, id string, baixo, critico, zerado bool) error
	LimparFlags(ctx context.Context) error
	MarcarFlag(ctx context.Context, coluna string, ids []string) error

	WithTx(tx *gorm.DB) ProdutoRepository

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) WithTx(tx *gorm.DB) ProdutoRepository { return &produtoRepo{db: tx} }

func (r *produtoRepo) DB() *gorm.DB { return r.db }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id string) (*model.Produto, error) {
	var p model.Produto
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})

	if filter.Busca != "" {
		like := "%" + strings.ToLower(filter.Busca) + "%"
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(id) LIKE ?", like, like)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Subcategoria != "" {
		q = q.Where("subcategoria = ?", filter.Subcategoria)
	}
	switch filter.Status {
	case "baixo":
		q = q.Where(FlagBaixo+" = ?", true)
	case "critico":
		q = q.Where(FlagCritico+" = ?", true)
	case "zerado":
		q = q.Where(FlagZerado+" = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nome ASC").Limit(filter.Limite).Offset(filter.Offset()).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) Recentes(ctx context.Context, n int) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).Order("criado_em DESC").Limit(n).Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) ComAlerta(ctx context.Context) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).
		Where(FlagBaixo+" = ? OR "+FlagCritico+" = ? OR "+FlagZerado+" = ?", true, true, true).
		Order("nome ASC").
		Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Model(p).
		Select("nome", "tipo", "categoria", "subcategoria", "imagem").
		Updates(p).Error
}

func (r *produtoRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Produto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *produtoRepo) Categorias(ctx context.Context) ([]CategoriaLinha, error) {
	var linhas []CategoriaLinha
	err := r.db.WithContext(ctx).Model(&model.Produto{}).
		Distinct("tipo", "categoria", "subcategoria").
		Order("tipo, categoria, subcategoria").
		Scan(&linhas).Error
	return linhas, err
}

func (r *produtoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Produto{}).Count(&n).Error
	return n, err
}

func (r *produtoRepo) CountFlag(ctx context.Context, coluna string) (int64, error) {
	if err := checkFlag(coluna); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Produto{}).Where(coluna+" = ?", true).Count(&n).Error
	return n, err
}

const idsUsados = `
SELECT id FROM produtos WHERE id LIKE @p
UNION SELECT produto_id FROM estoques WHERE produto_id LIKE @p
UNION SELECT produto_id FROM movimentacoes WHERE produto_id LIKE @p
UNION SELECT produto_id FROM vendas WHERE produto_id LIKE @p`

func (r *produtoRepo) IDsComPrefixo(ctx context.Context, prefixo string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Raw(idsUsados, sql.Named("p", prefixo+"%")).
		Scan(&ids).Error
	return ids, err
}

func (r *produtoRepo) ProximaSequencia(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id = ?", id).
		UpdateColumn("ultima_sequencia", gorm.Expr("ultima_sequencia + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	var seq int64
	err := r.db.WithContext(ctx).Model(&model.Produto{}).
		Select("ultima_sequencia").
		Where("id = ?", id).
		Scan(&seq).Error
	return seq, err
}

func (r *produtoRepo) Travar(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id = ?", id).
		UpdateColumn("ultima_sequencia", gorm.Expr("ultima_sequencia"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *produtoRepo) AtualizarFlags(ctx context.Context, id string, baixo, critico, zerado bool) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{FlagBaixo: baixo, FlagCritico: critico, FlagZerado: zerado}).Error
}

func (r *produtoRepo) LimparFlags(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).
		Where(FlagBaixo+" = ? OR "+FlagCritico+" = ? OR "+FlagZerado+" = ?", true, true, true).
		UpdateColumns(map[string]any{FlagBaixo: false, FlagCritico: false, FlagZerado: false}).Error
}

func (r *produtoRepo) MarcarFlag(ctx context.Context, coluna string, ids []string) error {
	if err := checkFlag(coluna); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id IN ?", ids).
		UpdateColumn(coluna, true).Error
}

func checkFlag(coluna string) error {
	switch coluna {
	case FlagBaixo, FlagCritico, FlagZerado:
		return nil
	}
	return fmt.Errorf("repository: unknown flag column %q", coluna)
}
