package repository

import (
	"context"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecuperacaoSenhaRepository interface {
	Create(ctx context.Context, r *model.RecuperacaoSenha) error
	FindByToken(ctx context.Context, token string) (*model.RecuperacaoSenha, error)
	// MarcarUsado flips usado only if it is still false; false means another
	// request already redeemed the token.
	MarcarUsado(ctx context.Context, id uuid.UUID) (bool, error)
	InvalidarPendentes(ctx context.Context, usuarioID uuid.UUID) error
	WithTx(tx *gorm.DB) RecuperacaoSenhaRepository
}

type recuperacaoSenhaRepo struct{ db *gorm.DB }

func NewRecuperacaoSenhaRepository(db *gorm.DB) RecuperacaoSenhaRepository {
	return &recuperacaoSenhaRepo{db: db}
}

func (r *recuperacaoSenhaRepo) WithTx(tx *gorm.DB) RecuperacaoSenhaRepository {
	return &recuperacaoSenhaRepo{db: tx}
}

func (r *recuperacaoSenhaRepo) Create(ctx context.Context, rec *model.RecuperacaoSenha) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recuperacaoSenhaRepo) FindByToken(ctx context.Context, token string) (*model.RecuperacaoSenha, error) {
	var rec model.RecuperacaoSenha
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recuperacaoSenhaRepo) MarcarUsado(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.RecuperacaoSenha{}).
		Where("id = ? AND usado = ?", id, false).
		UpdateColumn("usado", true)
	return res.RowsAffected == 1, res.Error
}

func (r *recuperacaoSenhaRepo) InvalidarPendentes(ctx context.Context, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.RecuperacaoSenha{}).
		Where("usuario_id = ? AND usado = ?", usuarioID, false).
		UpdateColumn("usado", true).Error
}
