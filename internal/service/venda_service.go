package service

import (
	"context"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type VendaService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
	Historico(ctx context.Context, filter dto.VendaFilter) (*dto.HistoricoVendasResponse, error)
	ExcluirDeProdutosRemovidos(ctx context.Context, preview bool) (*dto.LimpezaResponse, error)
}

type vendaService struct {
	db     *gorm.DB
	ops    *operacoesEstoque
	vendas repository.VendaRepository
	agora  func() time.Time
}

func NewVendaService(
	produtos repository.ProdutoRepository,
	estoques repository.EstoqueRepository,
	locais repository.LocalRepository,
	movimentacoes repository.MovimentacaoRepository,
	vendas repository.VendaRepository,
	estoque EstoqueService,
) VendaService {
	return &vendaService{
		db: produtos.DB(),
		ops: &operacoesEstoque{
			produtos:      produtos,
			estoques:      estoques,
			locais:        locais,
			movimentacoes: movimentacoes,
			flags:         estoque,
		},
		vendas: vendas,
		agora:  time.Now,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// One transaction: conditional debit, sequence + venda movement, sale row
// linked to the movement, flag recomputation. When two sales race for the
// last units the conditional debit lets exactly one of them through.

func (s *vendaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	data := s.agora()
	if req.DataVenda != nil {
		if req.DataVenda.After(data) {
			return nil, apierror.Validacao(apierror.CodigoValidacao, "A data da venda não pode estar no futuro")
		}
		data = *req.DataVenda
	}

	var (
		produto *model.Produto
		local   *model.Local
		venda   *model.Venda
	)
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if produto, err = s.ops.validarProduto(ctx, tx, req.ProdutoID); err != nil {
			return err
		}
		if local, err = s.ops.validarLocalAtivo(ctx, tx, req.LocalID); err != nil {
			return err
		}
		if err := s.ops.debitarTx(ctx, tx, req.ProdutoID, req.LocalID, req.Quantidade, &usuarioID); err != nil {
			return err
		}

		m := &model.Movimentacao{
			Tipo:          model.MovVenda,
			ProdutoID:     req.ProdutoID,
			Quantidade:    req.Quantidade,
			LocalOrigemID: req.LocalID,
			Data:          data,
			UsuarioID:     &usuarioID,
			Observacao:    opcional(req.Observacao),
		}
		if err := s.ops.registrarTx(ctx, tx, m); err != nil {
			return err
		}

		venda = &model.Venda{
			ProdutoID:      req.ProdutoID,
			Quantidade:     req.Quantidade,
			LocalID:        req.LocalID,
			DataVenda:      data,
			UsuarioID:      &usuarioID,
			MovimentacaoID: &m.ID,
		}
		if err := s.vendas.WithTx(tx).Create(ctx, venda); err != nil {
			return err
		}
		return s.ops.recalcularTx(ctx, tx, req.ProdutoID)
	})
	if err != nil {
		return nil, err
	}

	contabilizar(model.MovVenda, venda.Quantidade)
	log.Info().
		Str("venda_id", venda.ID.String()).
		Str("produto_id", venda.ProdutoID).
		Str("local_id", venda.LocalID).
		Int("quantidade", venda.Quantidade).
		Msg("venda registrada")

	return &dto.VendaResponse{
		ID:             venda.ID.String(),
		ProdutoID:      venda.ProdutoID,
		ProdutoNome:    produto.Nome,
		Quantidade:     venda.Quantidade,
		LocalID:        venda.LocalID,
		LocalNome:      local.Nome,
		DataVenda:      venda.DataVenda,
		UsuarioID:      uuidStr(venda.UsuarioID),
		MovimentacaoID: uuidStr(venda.MovimentacaoID),
	}, nil
}

func (s *vendaService) filtro(filter dto.VendaFilter) (repository.VendaFiltro, error) {
	inicio, fim, err := intervaloDatas(filter.DataInicio, filter.DataFim)
	if err != nil {
		return repository.VendaFiltro{}, err
	}
	return repository.VendaFiltro{
		ProdutoID: filter.ProdutoID,
		LocalID:   filter.LocalID,
		Inicio:    inicio,
		Fim:       fim,
		Offset:    filter.Offset(),
		Limit:     filter.Limite,
	}, nil
}

func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	f, err := s.filtro(filter)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.vendas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.VendaListResponse{
		Vendas:            vendasToResponse(rows),
		PaginacaoResponse: dto.NovaPaginacao(filter.Paginacao, total),
	}, nil
}

// Historico is Listar plus the totals of the whole filtered range.
func (s *vendaService) Historico(ctx context.Context, filter dto.VendaFilter) (*dto.HistoricoVendasResponse, error) {
	f, err := s.filtro(filter)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.vendas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	vendas, unidades, err := s.vendas.Totais(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.HistoricoVendasResponse{
		Vendas:            vendasToResponse(rows),
		TotalVendas:       vendas,
		TotalUnidades:     unidades,
		PaginacaoResponse: dto.NovaPaginacao(filter.Paginacao, total),
	}, nil
}

func (s *vendaService) ExcluirDeProdutosRemovidos(ctx context.Context, preview bool) (*dto.LimpezaResponse, error) {
	if preview {
		n, err := s.vendas.CountOrfas(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.LimpezaResponse{Preview: true, Quantidade: n}, nil
	}
	n, err := s.vendas.DeleteOrfas(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("quantidade", n).Msg("vendas de produtos removidos excluidas")
	return &dto.LimpezaResponse{Quantidade: n}, nil
}

func vendasToResponse(rows []repository.VendaDetalhe) []dto.VendaResponse {
	out := make([]dto.VendaResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.VendaResponse{
			ID:             r.ID.String(),
			ProdutoID:      r.ProdutoID,
			ProdutoNome:    nomeOu(r.ProdutoNome, nomeProdutoRemovido),
			Quantidade:     r.Quantidade,
			LocalID:        r.LocalID,
			LocalNome:      nomeOu(r.LocalNome, r.LocalID),
			DataVenda:      r.DataVenda,
			UsuarioID:      uuidStr(r.UsuarioID),
			UsuarioNome:    r.UsuarioNome,
			MovimentacaoID: uuidStr(r.MovimentacaoID),
		}
	}
	return out
}
