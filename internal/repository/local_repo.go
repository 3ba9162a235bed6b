package repository

import (
	"context"
	"database/sql"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"gorm.io/gorm"
)

type LocalRepository interface {
	Create(ctx context.Context, l *model.Local) error
	FindByID(ctx context.Context, id string) (*model.Local, error)
	FindByNome(ctx context.Context, nome string) (*model.Local, error)
	// IDEmUso reports whether id belongs to a location or is still referenced
	// by stock, movements or sales of a removed one.
	IDEmUso(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, ativo *bool) ([]model.Local, error)
	Update(ctx context.Context, l *model.Local) error
	Delete(ctx context.Context, id string) error
	// Nomes resolves ids to display names; unknown ids are absent from the map.
	Nomes(ctx context.Context, ids []string) (map[string]string, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) LocalRepository
}

type localRepo struct{ db *gorm.DB }

func NewLocalRepository(db *gorm.DB) LocalRepository { return &localRepo{db: db} }

func (r *localRepo) WithTx(tx *gorm.DB) LocalRepository { return &localRepo{db: tx} }

func (r *localRepo) Create(ctx context.Context, l *model.Local) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *localRepo) FindByID(ctx context.Context, id string) (*model.Local, error) {
	var l model.Local
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *localRepo) FindByNome(ctx context.Context, nome string) (*model.Local, error) {
	var l model.Local
	if err := r.db.WithContext(ctx).Where("LOWER(nome) = LOWER(?)", nome).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

const idLocalEmUso = `
SELECT
  EXISTS (SELECT 1 FROM locais WHERE id = @id)
  OR EXISTS (SELECT 1 FROM estoques WHERE local_id = @id)
  OR EXISTS (SELECT 1 FROM movimentacoes WHERE local_origem_id = @id OR local_destino_id = @id)
  OR EXISTS (SELECT 1 FROM vendas WHERE local_id = @id)`

func (r *localRepo) IDEmUso(ctx context.Context, id string) (bool, error) {
	var emUso bool
	err := r.db.WithContext(ctx).Raw(idLocalEmUso, sql.Named("id", id)).Scan(&emUso).Error
	return emUso, err
}

func (r *localRepo) List(ctx context.Context, ativo *bool) ([]model.Local, error) {
	var locais []model.Local
	q := r.db.WithContext(ctx).Order("nome ASC")
	if ativo != nil {
		q = q.Where("ativo = ?", *ativo)
	}
	err := q.Find(&locais).Error
	return locais, err
}

func (r *localRepo) Update(ctx context.Context, l *model.Local) error {
	return r.db.WithContext(ctx).Model(l).
		Select("nome", "descricao", "tipo", "ativo").
		Updates(l).Error
}

func (r *localRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Local{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *localRepo) Nomes(ctx context.Context, ids []string) (map[string]string, error) {
	nomes := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return nomes, nil
	}
	var locais []model.Local
	if err := r.db.WithContext(ctx).Select("id", "nome").Where("id IN ?", ids).Find(&locais).Error; err != nil {
		return nil, err
	}
	for _, l := range locais {
		nomes[l.ID] = l.Nome
	}
	return nomes, nil
}

func (r *localRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Local{}).Where("ativo = ?", true).Count(&n).Error
	return n, err
}
