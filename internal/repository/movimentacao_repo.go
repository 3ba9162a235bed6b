package repository

import (
	"context"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimentacaoFiltro struct {
	ProdutoID string
	Tipo      string
	LocalID   string // matches origin or destination
	Inicio    *time.Time
	Fim       *time.Time // exclusive
	Offset    int
	Limit     int
}

// MovimentacaoDetalhe is a movement with product, location, user and sale
// references resolved through LEFT JOINs.
type MovimentacaoDetalhe struct {
	ID               uuid.UUID
	Tipo             string
	ProdutoID        string
	ProdutoNome      *string
	Quantidade       int
	LocalOrigemID    string
	LocalOrigemNome  *string
	LocalDestinoID   *string
	LocalDestinoNome *string
	Sequencia        int64
	Data             time.Time
	UsuarioID        *uuid.UUID
	UsuarioNome      *string
	Observacao       *string
	VendaID          *uuid.UUID
}

type MovimentacaoRepository interface {
	Create(ctx context.Context, m *model.Movimentacao) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movimentacao, error)
	FindDetalhe(ctx context.Context, id uuid.UUID) (*MovimentacaoDetalhe, error)
	List(ctx context.Context, f MovimentacaoFiltro) ([]MovimentacaoDetalhe, int64, error)
	// MaxSequencia is the highest sequence recorded for the product, 0 when none.
	MaxSequencia(ctx context.Context, produtoID string) (int64, error)
	// UltimoLocal is the origin of the product's latest movement, "" when none.
	UltimoLocal(ctx context.Context, produtoID string) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountOrfas(ctx context.Context) (int64, error)
	DeleteOrfas(ctx context.Context) (int64, error)
	CountPorTipo(ctx context.Context, inicio, fim time.Time) (map[string]int64, error)
	CountDesde(ctx context.Context, desde time.Time) (int64, error)
	WithTx(tx *gorm.DB) MovimentacaoRepository
}

type movimentacaoRepo struct{ db *gorm.DB }

func NewMovimentacaoRepository(db *gorm.DB) MovimentacaoRepository {
	return &movimentacaoRepo{db: db}
}

func (r *movimentacaoRepo) WithTx(tx *gorm.DB) MovimentacaoRepository { return &movimentacaoRepo{db: tx} }

func (r *movimentacaoRepo) Create(ctx context.Context, m *model.Movimentacao) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimentacaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movimentacao, error) {
	var m model.Movimentacao
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimentacaoRepo) detalhes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("movimentacoes AS m").
		Joins("LEFT JOIN produtos p ON p.id = m.produto_id").
		Joins("LEFT JOIN locais lo ON lo.id = m.local_origem_id").
		Joins("LEFT JOIN locais ld ON ld.id = m.local_destino_id").
		Joins("LEFT JOIN usuarios u ON u.id = m.usuario_id").
		Joins("LEFT JOIN vendas v ON v.movimentacao_id = m.id")
}

const movimentacaoDetalheCols = `m.id, m.tipo, m.produto_id, p.nome AS produto_nome, m.quantidade,
	m.local_origem_id, lo.nome AS local_origem_nome, m.local_destino_id, ld.nome AS local_destino_nome,
	m.sequencia, m.data, m.usuario_id, u.nome AS usuario_nome, m.observacao, v.id AS venda_id`

func (r *movimentacaoRepo) FindDetalhe(ctx context.Context, id uuid.UUID) (*MovimentacaoDetalhe, error) {
	var rows []MovimentacaoDetalhe
	err := r.detalhes(ctx).Select(movimentacaoDetalheCols).Where("m.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *movimentacaoRepo) List(ctx context.Context, f MovimentacaoFiltro) ([]MovimentacaoDetalhe, int64, error) {
	var rows []MovimentacaoDetalhe
	var total int64

	q := r.detalhes(ctx)
	if f.ProdutoID != "" {
		q = q.Where("m.produto_id = ?", f.ProdutoID)
	}
	if f.Tipo != "" {
		q = q.Where("m.tipo = ?", f.Tipo)
	}
	if f.LocalID != "" {
		q = q.Where("(m.local_origem_id = ? OR m.local_destino_id = ?)", f.LocalID, f.LocalID)
	}
	if f.Inicio != nil {
		q = q.Where("m.data >= ?", *f.Inicio)
	}
	if f.Fim != nil {
		q = q.Where("m.data < ?", *f.Fim)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Select(movimentacaoDetalheCols).
		Order("m.data DESC, m.sequencia DESC").
		Limit(f.Limit).Offset(f.Offset).
		Scan(&rows).Error
	return rows, total, err
}

func (r *movimentacaoRepo) MaxSequencia(ctx context.Context, produtoID string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Model(&model.Movimentacao{}).
		Select("COALESCE(MAX(sequencia), 0)").
		Where("produto_id = ?", produtoID).
		Scan(&seq).Error
	return seq, err
}

func (r *movimentacaoRepo) UltimoLocal(ctx context.Context, produtoID string) (string, error) {
	var locais []string
	err := r.db.WithContext(ctx).Model(&model.Movimentacao{}).
		Where("produto_id = ?", produtoID).
		Order("sequencia DESC").
		Limit(1).
		Pluck("local_origem_id", &locais).Error
	if err != nil || len(locais) == 0 {
		return "", err
	}
	return locais[0], nil
}

func (r *movimentacaoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Movimentacao{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const semProduto = "produto_id NOT IN (SELECT id FROM produtos)"

func (r *movimentacaoRepo) CountOrfas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Movimentacao{}).Where(semProduto).Count(&n).Error
	return n, err
}

func (r *movimentacaoRepo) DeleteOrfas(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where(semProduto).Delete(&model.Movimentacao{})
	return res.RowsAffected, res.Error
}

func (r *movimentacaoRepo) CountPorTipo(ctx context.Context, inicio, fim time.Time) (map[string]int64, error) {
	var rows []struct {
		Tipo  string
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&model.Movimentacao{}).
		Select("tipo, COUNT(*) AS total").
		Where("data >= ? AND data < ?", inicio, fim).
		Group("tipo").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int64{
		model.MovEntrada: 0, model.MovSaida: 0, model.MovTransferencia: 0, model.MovVenda: 0,
	}
	for _, row := range rows {
		out[row.Tipo] = row.Total
	}
	return out, nil
}

func (r *movimentacaoRepo) CountDesde(ctx context.Context, desde time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Movimentacao{}).Where("data >= ?", desde).Count(&n).Error
	return n, err
}
