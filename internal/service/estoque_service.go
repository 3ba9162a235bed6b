package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/metrics"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EstoqueService keeps the cached product flags consistent with the estoques
// rows and answers availability questions.
type EstoqueService interface {
	RecalcularFlagsProduto(ctx context.Context, produtoID string) (*dto.FlagsResultado, error)
	// RecalcularFlagsProdutoTx runs the recomputation inside the caller's transaction.
	RecalcularFlagsProdutoTx(ctx context.Context, tx *gorm.DB, produtoID string) (*dto.FlagsResultado, error)
	RecalcularFlagsGlobal(ctx context.Context) (*dto.FlagsGlobalResultado, error)
	VerificarDisponibilidade(ctx context.Context, produtoID, localID string, quantidade int) (*dto.DisponibilidadeResponse, error)
	Listar(ctx context.Context, filter dto.EstoqueFilter) (*dto.EstoqueListResponse, error)
	PorProduto(ctx context.Context, produtoID string) (*dto.EstoqueProdutoResponse, error)
	Limites() LimitesEstoque
}

type estoqueService struct {
	db       *gorm.DB
	produtos repository.ProdutoRepository
	estoques repository.EstoqueRepository
	locais   repository.LocalRepository
	limites  LimitesEstoque
}

func NewEstoqueService(
	produtos repository.ProdutoRepository,
	estoques repository.EstoqueRepository,
	locais repository.LocalRepository,
	limites LimitesEstoque,
) EstoqueService {
	return &estoqueService{
		db:       produtos.DB(),
		produtos: produtos,
		estoques: estoques,
		locais:   locais,
		limites:  limites,
	}
}

func (s *estoqueService) Limites() LimitesEstoque { return s.limites }

// DerivarFlags computes the three existence flags over a product's quantities.
// They are independent: one location can be empty while another is critical.
func DerivarFlags(quantidades []int, l LimitesEstoque) (zerado, critico, baixo bool) {
	for _, q := range quantidades {
		switch {
		case q == 0:
			zerado = true
		case q >= 1 && q < l.Critico:
			critico = true
		case q >= l.Critico && q < l.Baixo:
			baixo = true
		}
	}
	return zerado, critico, baixo
}

func (s *estoqueService) RecalcularFlagsProduto(ctx context.Context, produtoID string) (*dto.FlagsResultado, error) {
	return s.RecalcularFlagsProdutoTx(ctx, s.db, produtoID)
}

func (s *estoqueService) RecalcularFlagsProdutoTx(ctx context.Context, tx *gorm.DB, produtoID string) (*dto.FlagsResultado, error) {
	produtos := s.produtos.WithTx(tx)
	res := &dto.FlagsResultado{ProdutoID: produtoID}

	exists, err := produtos.Exists(ctx, produtoID)
	if err != nil {
		return nil, fmt.Errorf("recalcular flags %s: %w", produtoID, err)
	}
	if !exists {
		res.Erro = "Produto não encontrado"
		return res, nil
	}

	rows, err := s.estoques.WithTx(tx).ListByProduto(ctx, produtoID)
	if err != nil {
		return nil, fmt.Errorf("recalcular flags %s: %w", produtoID, err)
	}
	qtds := make([]int, len(rows))
	for i, r := range rows {
		qtds[i] = r.Quantidade
	}
	res.TemEstoqueZerado, res.TemEstoqueCritico, res.TemEstoqueBaixo = DerivarFlags(qtds, s.limites)

	if err := produtos.AtualizarFlags(ctx, produtoID, res.TemEstoqueBaixo, res.TemEstoqueCritico, res.TemEstoqueZerado); err != nil {
		return nil, fmt.Errorf("recalcular flags %s: %w", produtoID, err)
	}
	return res, nil
}

// RecalcularFlagsGlobal clears every flag and re-derives them with three
// set-membership queries, all in one transaction so readers never observe
// the cleared state.
func (s *estoqueService) RecalcularFlagsGlobal(ctx context.Context) (*dto.FlagsGlobalResultado, error) {
	inicio := time.Now()
	res := &dto.FlagsGlobalResultado{}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		produtos := s.produtos.WithTx(tx)
		estoques := s.estoques.WithTx(tx)

		if err := produtos.LimparFlags(ctx); err != nil {
			return err
		}

		faixas := []struct {
			coluna string
			faixa  repository.Faixa
			total  *int
		}{
			{repository.FlagZerado, repository.Faixa{Min: 0, Max: 1}, &res.ProdutosZerados},
			{repository.FlagCritico, repository.Faixa{Min: 1, Max: s.limites.Critico}, &res.ProdutosCriticos},
			{repository.FlagBaixo, repository.Faixa{Min: s.limites.Critico, Max: s.limites.Baixo}, &res.ProdutosBaixos},
		}
		for _, f := range faixas {
			ids, err := estoques.ProdutosNaFaixa(ctx, f.faixa)
			if err != nil {
				return err
			}
			if err := produtos.MarcarFlag(ctx, f.coluna, ids); err != nil {
				return err
			}
			*f.total = len(ids)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recalcular flags global: %w", err)
	}

	res.Duracao = time.Since(inicio)
	metrics.FlagsReconciliacao.Observe(res.Duracao.Seconds())
	log.Info().
		Int("zerados", res.ProdutosZerados).
		Int("criticos", res.ProdutosCriticos).
		Int("baixos", res.ProdutosBaixos).
		Dur("duracao", res.Duracao).
		Msg("estoque: flags reconciled")
	return res, nil
}

func (s *estoqueService) VerificarDisponibilidade(ctx context.Context, produtoID, localID string, quantidade int) (*dto.DisponibilidadeResponse, error) {
	resp := &dto.DisponibilidadeResponse{QuantidadeSolicitada: quantidade}

	row, err := s.estoques.Find(ctx, produtoID, localID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp.Mensagem = fmt.Sprintf("Não há registro de estoque do produto %s no local %s", produtoID, localID)
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	resp.QuantidadeAtual = row.Quantidade
	resp.Disponivel = row.Quantidade >= quantidade
	if resp.Disponivel {
		resp.Mensagem = "Estoque disponível"
	} else {
		resp.Mensagem = fmt.Sprintf("Estoque insuficiente. Disponível: %d", row.Quantidade)
	}
	return resp, nil
}

func (s *estoqueService) Listar(ctx context.Context, filter dto.EstoqueFilter) (*dto.EstoqueListResponse, error) {
	f := repository.EstoqueFiltro{
		ProdutoID: filter.ProdutoID,
		LocalID:   filter.LocalID,
		Offset:    filter.Offset(),
		Limit:     filter.Limite,
	}
	switch filter.Status {
	case "zerado":
		f.Faixa = &repository.Faixa{Min: 0, Max: 1}
	case "critico":
		f.Faixa = &repository.Faixa{Min: 1, Max: s.limites.Critico}
	case "baixo":
		f.Faixa = &repository.Faixa{Min: s.limites.Critico, Max: s.limites.Baixo}
	}

	rows, total, err := s.estoques.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstoqueResponse, len(rows))
	for i, r := range rows {
		out[i] = estoqueToResponse(r, s.limites)
	}
	return &dto.EstoqueListResponse{Estoques: out, PaginacaoResponse: dto.NovaPaginacao(filter.Paginacao, total)}, nil
}

func (s *estoqueService) PorProduto(ctx context.Context, produtoID string) (*dto.EstoqueProdutoResponse, error) {
	p, err := s.produtos.FindByID(ctx, produtoID)
	if err != nil {
		return nil, naoEncontrado(err, "Produto não encontrado")
	}
	locais, total, err := estoquesDoProduto(ctx, s.estoques, s.locais, produtoID)
	if err != nil {
		return nil, err
	}
	return &dto.EstoqueProdutoResponse{
		ProdutoID:       p.ID,
		ProdutoNome:     p.Nome,
		QuantidadeTotal: total,
		Locais:          locais,
	}, nil
}

// estoquesDoProduto lists a product's stock rows with location names and their sum.
func estoquesDoProduto(
	ctx context.Context,
	estoques repository.EstoqueRepository,
	locaisRepo repository.LocalRepository,
	produtoID string,
) ([]dto.EstoqueLocalResponse, int64, error) {
	rows, err := estoques.ListByProduto(ctx, produtoID)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.LocalID
	}
	nomes, err := locaisRepo.Nomes(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	out := make([]dto.EstoqueLocalResponse, len(rows))
	for i, r := range rows {
		total += int64(r.Quantidade)
		out[i] = estoqueLocalResponse(r, nomes)
	}
	return out, total, nil
}

func estoqueLocalResponse(e model.Estoque, nomes map[string]string) dto.EstoqueLocalResponse {
	nome, ok := nomes[e.LocalID]
	if !ok {
		nome = e.LocalID
	}
	return dto.EstoqueLocalResponse{
		LocalID:           e.LocalID,
		LocalNome:         nome,
		Quantidade:        e.Quantidade,
		UltimaAtualizacao: e.UltimaAtualizacao,
	}
}

func estoqueToResponse(r repository.EstoqueDetalhe, l LimitesEstoque) dto.EstoqueResponse {
	return dto.EstoqueResponse{
		ID:                r.ID.String(),
		ProdutoID:         r.ProdutoID,
		ProdutoNome:       nomeOu(r.ProdutoNome, nomeProdutoRemovido),
		LocalID:           r.LocalID,
		LocalNome:         nomeOu(r.LocalNome, r.LocalID),
		Quantidade:        r.Quantidade,
		Status:            l.Status(r.Quantidade),
		UltimaAtualizacao: r.UltimaAtualizacao,
	}
}
