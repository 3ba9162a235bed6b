package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MovimentacaoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMovimentacaoRequest) (*dto.MovimentacaoResponse, error)
	Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferirRequest) (*dto.MovimentacaoResponse, error)
	Listar(ctx context.Context, filter dto.MovimentacaoFilter) (*dto.MovimentacaoListResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.MovimentacaoResponse, error)
	Excluir(ctx context.Context, usuarioID, id uuid.UUID) error
	ExcluirDeProdutosRemovidos(ctx context.Context, preview bool) (*dto.LimpezaResponse, error)
}

type movimentacaoService struct {
	db            *gorm.DB
	ops           *operacoesEstoque
	movimentacoes repository.MovimentacaoRepository
	vendas        VendaService
	janela        time.Duration
	agora         func() time.Time
}

func NewMovimentacaoService(
	produtos repository.ProdutoRepository,
	estoques repository.EstoqueRepository,
	locais repository.LocalRepository,
	movimentacoes repository.MovimentacaoRepository,
	estoque EstoqueService,
	vendas VendaService,
	janelaExclusao time.Duration,
) MovimentacaoService {
	return &movimentacaoService{
		db: produtos.DB(),
		ops: &operacoesEstoque{
			produtos:      produtos,
			estoques:      estoques,
			locais:        locais,
			movimentacoes: movimentacoes,
			flags:         estoque,
		},
		movimentacoes: movimentacoes,
		vendas:        vendas,
		janela:        janelaExclusao,
		agora:         time.Now,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Each branch is one transaction:
//   1. validate product and location(s)
//   2. apply the stock change with the conditional primitives
//   3. allocate the sequence number and append the movement
//   4. recompute the product flags

func (s *movimentacaoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMovimentacaoRequest) (*dto.MovimentacaoResponse, error) {
	if req.Tipo == model.MovVenda {
		venda, err := s.vendas.Registrar(ctx, usuarioID, dto.RegistrarVendaRequest{
			ProdutoID:  req.ProdutoID,
			Quantidade: req.Quantidade,
			LocalID:    req.LocalOrigemID,
			Observacao: req.Observacao,
		})
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(*venda.MovimentacaoID)
		if err != nil {
			return nil, err
		}
		return s.Obter(ctx, id)
	}

	m := &model.Movimentacao{
		Tipo:          req.Tipo,
		ProdutoID:     req.ProdutoID,
		Quantidade:    req.Quantidade,
		LocalOrigemID: req.LocalOrigemID,
		UsuarioID:     &usuarioID,
		Observacao:    opcional(req.Observacao),
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.ops.validarProduto(ctx, tx, m.ProdutoID); err != nil {
			return err
		}
		if _, err := s.ops.validarLocalAtivo(ctx, tx, m.LocalOrigemID); err != nil {
			return err
		}

		switch m.Tipo {
		case model.MovEntrada:
			if err := s.ops.creditarTx(ctx, tx, m.ProdutoID, m.LocalOrigemID, m.Quantidade, &usuarioID); err != nil {
				return err
			}
		case model.MovSaida:
			if err := s.ops.debitarTx(ctx, tx, m.ProdutoID, m.LocalOrigemID, m.Quantidade, &usuarioID); err != nil {
				return err
			}
		case model.MovTransferencia:
			destino := req.LocalDestinoID
			if destino == "" {
				return apierror.Validacao(apierror.CodigoValidacao, "Local de destino é obrigatório para transferências")
			}
			if destino == m.LocalOrigemID {
				return apierror.Validacao(apierror.CodigoValidacao, "Local de origem e destino devem ser diferentes")
			}
			if _, err := s.ops.validarLocalAtivo(ctx, tx, destino); err != nil {
				return err
			}
			// Debit first: a short origin must fail before the destination is credited.
			if err := s.ops.debitarTx(ctx, tx, m.ProdutoID, m.LocalOrigemID, m.Quantidade, &usuarioID); err != nil {
				return err
			}
			if err := s.ops.creditarTx(ctx, tx, m.ProdutoID, destino, m.Quantidade, &usuarioID); err != nil {
				return err
			}
			m.LocalDestinoID = &destino
		default:
			return apierror.Validacao(apierror.CodigoValidacao, fmt.Sprintf("Tipo de movimentação inválido: %s", m.Tipo))
		}

		if err := s.ops.registrarTx(ctx, tx, m); err != nil {
			return err
		}
		return s.ops.recalcularTx(ctx, tx, m.ProdutoID)
	})
	if err != nil {
		return nil, err
	}

	contabilizar(m.Tipo, m.Quantidade)
	log.Info().
		Str("tipo", m.Tipo).
		Str("produto_id", m.ProdutoID).
		Int("quantidade", m.Quantidade).
		Int64("sequencia", m.Sequencia).
		Msg("movimentacao registrada")

	return s.Obter(ctx, m.ID)
}

func (s *movimentacaoService) Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferirRequest) (*dto.MovimentacaoResponse, error) {
	return s.Registrar(ctx, usuarioID, dto.RegistrarMovimentacaoRequest{
		Tipo:           model.MovTransferencia,
		ProdutoID:      req.ProdutoID,
		Quantidade:     req.Quantidade,
		LocalOrigemID:  req.LocalOrigemID,
		LocalDestinoID: req.LocalDestinoID,
		Observacao:     req.Observacao,
	})
}

func (s *movimentacaoService) Listar(ctx context.Context, filter dto.MovimentacaoFilter) (*dto.MovimentacaoListResponse, error) {
	inicio, fim, err := intervaloDatas(filter.DataInicio, filter.DataFim)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.movimentacoes.List(ctx, repository.MovimentacaoFiltro{
		ProdutoID: filter.ProdutoID,
		Tipo:      filter.Tipo,
		LocalID:   filter.LocalID,
		Inicio:    inicio,
		Fim:       fim,
		Offset:    filter.Offset(),
		Limit:     filter.Limite,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimentacaoResponse, len(rows))
	for i := range rows {
		out[i] = movimentacaoToResponse(&rows[i])
	}
	return &dto.MovimentacaoListResponse{Movimentacoes: out, PaginacaoResponse: dto.NovaPaginacao(filter.Paginacao, total)}, nil
}

func (s *movimentacaoService) Obter(ctx context.Context, id uuid.UUID) (*dto.MovimentacaoResponse, error) {
	d, err := s.movimentacoes.FindDetalhe(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Movimentação não encontrada")
	}
	resp := movimentacaoToResponse(d)
	return &resp, nil
}

// ── Excluir ───────────────────────────────────────────────────────────────────
// Checks run in a fixed order: retention window, product existence,
// sequence ordering, then the stock reversal for the movement type.
// Outgoing movements (saida, venda) are never credited back.

func (s *movimentacaoService) Excluir(ctx context.Context, usuarioID, id uuid.UUID) error {
	var m *model.Movimentacao
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		movs := s.movimentacoes.WithTx(tx)

		var err error
		m, err = movs.FindByID(ctx, id)
		if err != nil {
			return naoEncontrado(err, "Movimentação não encontrada")
		}

		if s.agora().Sub(m.Data) > s.janela {
			return rejeitar(apierror.CodigoMovimentacaoAntiga,
				fmt.Sprintf("Movimentações com mais de %d dias não podem ser excluídas", int(s.janela.Hours()/24)))
		}

		// Lock the product row so no new movement can land while we check ordering.
		err = s.ops.produtos.WithTx(tx).Travar(ctx, m.ProdutoID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movs.Delete(ctx, m.ID)
		}
		if err != nil {
			return err
		}

		maxSeq, err := movs.MaxSequencia(ctx, m.ProdutoID)
		if err != nil {
			return err
		}
		if maxSeq > m.Sequencia {
			return rejeitar(apierror.CodigoMovimentacaoPosterior,
				"Existem movimentações posteriores deste produto; exclua-as primeiro")
		}

		switch m.Tipo {
		case model.MovEntrada:
			if err := s.ops.estornarTx(ctx, tx, m.ProdutoID, m.LocalOrigemID, m.Quantidade, &usuarioID); err != nil {
				return err
			}
		case model.MovTransferencia:
			if m.LocalDestinoID == nil {
				return fmt.Errorf("movimentacao %s: transferencia sem destino", m.ID)
			}
			if err := s.ops.estornarTx(ctx, tx, m.ProdutoID, *m.LocalDestinoID, m.Quantidade, &usuarioID); err != nil {
				return err
			}
			if err := s.ops.creditarTx(ctx, tx, m.ProdutoID, m.LocalOrigemID, m.Quantidade, &usuarioID); err != nil {
				return err
			}
		}

		if err := movs.Delete(ctx, m.ID); err != nil {
			return err
		}
		return s.ops.recalcularTx(ctx, tx, m.ProdutoID)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("movimentacao_id", id.String()).
		Str("tipo", m.Tipo).
		Str("produto_id", m.ProdutoID).
		Str("usuario_id", usuarioID.String()).
		Msg("movimentacao excluida")
	return nil
}

func (s *movimentacaoService) ExcluirDeProdutosRemovidos(ctx context.Context, preview bool) (*dto.LimpezaResponse, error) {
	if preview {
		n, err := s.movimentacoes.CountOrfas(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.LimpezaResponse{Preview: true, Quantidade: n}, nil
	}
	n, err := s.movimentacoes.DeleteOrfas(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("quantidade", n).Msg("movimentacoes de produtos removidos excluidas")
	return &dto.LimpezaResponse{Quantidade: n}, nil
}

func movimentacaoToResponse(d *repository.MovimentacaoDetalhe) dto.MovimentacaoResponse {
	resp := dto.MovimentacaoResponse{
		ID:              d.ID.String(),
		Tipo:            d.Tipo,
		ProdutoID:       d.ProdutoID,
		ProdutoNome:     nomeOu(d.ProdutoNome, nomeProdutoRemovido),
		Quantidade:      d.Quantidade,
		LocalOrigemID:   d.LocalOrigemID,
		LocalOrigemNome: nomeOu(d.LocalOrigemNome, d.LocalOrigemID),
		LocalDestinoID:  d.LocalDestinoID,
		Sequencia:       d.Sequencia,
		Data:            d.Data,
		UsuarioID:       uuidStr(d.UsuarioID),
		UsuarioNome:     d.UsuarioNome,
		Observacao:      d.Observacao,
		VendaID:         uuidStr(d.VendaID),
	}
	if d.LocalDestinoID != nil {
		nome := nomeOu(d.LocalDestinoNome, *d.LocalDestinoID)
		resp.LocalDestinoNome = &nome
	}
	return resp
}
