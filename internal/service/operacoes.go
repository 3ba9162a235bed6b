package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/metrics"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// operacoesEstoque bundles the transactional building blocks shared by the
// movement, sale and product services. Every method takes the open
// transaction; none of them commits.
type operacoesEstoque struct {
	produtos      repository.ProdutoRepository
	estoques      repository.EstoqueRepository
	locais        repository.LocalRepository
	movimentacoes repository.MovimentacaoRepository
	flags         EstoqueService
}

// validarProduto fails with 404 when the product does not exist.
func (o *operacoesEstoque) validarProduto(ctx context.Context, tx *gorm.DB, produtoID string) (*model.Produto, error) {
	p, err := o.produtos.WithTx(tx).FindByID(ctx, produtoID)
	if err != nil {
		return nil, naoEncontrado(err, fmt.Sprintf("Produto %s não encontrado", produtoID))
	}
	return p, nil
}

// validarLocalAtivo fails with 404 for an unknown location and with
// LOCAL_INATIVO when it exists but no longer accepts movements.
func (o *operacoesEstoque) validarLocalAtivo(ctx context.Context, tx *gorm.DB, localID string) (*model.Local, error) {
	l, err := o.locais.WithTx(tx).FindByID(ctx, localID)
	if err != nil {
		return nil, naoEncontrado(err, fmt.Sprintf("Local %s não encontrado", localID))
	}
	if !l.Ativo {
		return nil, rejeitar(apierror.CodigoLocalInativo, fmt.Sprintf("O local %s está inativo", l.Nome))
	}
	return l, nil
}

// debitarTx removes qtd from (produto, local) or fails without touching the row.
func (o *operacoesEstoque) debitarTx(ctx context.Context, tx *gorm.DB, produtoID, localID string, qtd int, usuarioID *uuid.UUID) error {
	ok, err := o.estoques.WithTx(tx).DecrementarSeDisponivel(ctx, produtoID, localID, qtd, usuarioID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	row, err := o.estoques.WithTx(tx).Find(ctx, produtoID, localID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return rejeitar(apierror.CodigoEstoqueInexistente,
			fmt.Sprintf("Não há estoque do produto %s no local %s", produtoID, localID))
	case err != nil:
		return err
	}
	return rejeitar(apierror.CodigoEstoqueInsuficiente,
		fmt.Sprintf("Estoque insuficiente. Disponível: %d, solicitado: %d", row.Quantidade, qtd))
}

// estornarTx reverses an earlier credit. Units already consumed downstream
// make the reversal impossible.
func (o *operacoesEstoque) estornarTx(ctx context.Context, tx *gorm.DB, produtoID, localID string, qtd int, usuarioID *uuid.UUID) error {
	ok, err := o.estoques.WithTx(tx).DecrementarSeDisponivel(ctx, produtoID, localID, qtd, usuarioID)
	if err != nil {
		return err
	}
	if !ok {
		return rejeitar(apierror.CodigoEstoqueConsumido,
			fmt.Sprintf("Não é possível excluir: as %d unidades já não estão disponíveis no local %s", qtd, localID))
	}
	return nil
}

func (o *operacoesEstoque) creditarTx(ctx context.Context, tx *gorm.DB, produtoID, localID string, qtd int, usuarioID *uuid.UUID) error {
	return o.estoques.WithTx(tx).Incrementar(ctx, produtoID, localID, qtd, usuarioID)
}

// registrarTx allocates the product's next sequence number and appends m to
// the movement log.
func (o *operacoesEstoque) registrarTx(ctx context.Context, tx *gorm.DB, m *model.Movimentacao) error {
	seq, err := o.produtos.WithTx(tx).ProximaSequencia(ctx, m.ProdutoID)
	if err != nil {
		return naoEncontrado(err, fmt.Sprintf("Produto %s não encontrado", m.ProdutoID))
	}
	m.Sequencia = seq
	if err := o.movimentacoes.WithTx(tx).Create(ctx, m); err != nil {
		return fmt.Errorf("registrar movimentação: %w", err)
	}
	return nil
}

func (o *operacoesEstoque) recalcularTx(ctx context.Context, tx *gorm.DB, produtoID string) error {
	_, err := o.flags.RecalcularFlagsProdutoTx(ctx, tx, produtoID)
	return err
}

// contabilizar records a committed movement in the Prometheus counters.
func contabilizar(tipo string, qtd int) {
	metrics.Movimentacoes.WithLabelValues(tipo).Inc()
	metrics.UnidadesMovimentadas.WithLabelValues(tipo).Add(float64(qtd))
}

func rejeitar(codigo, msg string) error {
	metrics.Rejeicoes.WithLabelValues(codigo).Inc()
	return apierror.Regra(codigo, msg)
}
