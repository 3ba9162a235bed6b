package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const tentativasCodigo = 3

// localDesconhecido marks a closing movement when no location exists at all.
const localDesconhecido = "sem-local"

type ProdutoService interface {
	Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Obter(ctx context.Context, id string) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id string, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	ZerarEstoque(ctx context.Context, usuarioID uuid.UUID, id string) (*dto.ZerarEstoqueResponse, error)
	Excluir(ctx context.Context, usuarioID uuid.UUID, id string) error
	ListarCategorias(ctx context.Context) ([]dto.CategoriaArvore, error)
}

type produtoService struct {
	db       *gorm.DB
	ops      *operacoesEstoque
	produtos repository.ProdutoRepository
	estoques repository.EstoqueRepository
	locais   repository.LocalRepository
}

func NewProdutoService(
	produtos repository.ProdutoRepository,
	estoques repository.EstoqueRepository,
	locais repository.LocalRepository,
	movimentacoes repository.MovimentacaoRepository,
	estoque EstoqueService,
) ProdutoService {
	return &produtoService{
		db: produtos.DB(),
		ops: &operacoesEstoque{
			produtos:      produtos,
			estoques:      estoques,
			locais:        locais,
			movimentacoes: movimentacoes,
			flags:         estoque,
		},
		produtos: produtos,
		estoques: estoques,
		locais:   locais,
	}
}

// GerarCodigoProduto picks the next free code for the given attributes.
// It must run inside the transaction that inserts the product: the primary
// key is what finally arbitrates two creators racing for the same code.
func (s *produtoService) GerarCodigoProduto(ctx context.Context, tx *gorm.DB, tipo, categoria, subcategoria, nome string) (string, error) {
	prefixo := PrefixoCodigo(tipo, categoria, subcategoria, nome)
	if prefixo == "" {
		return "", apierror.Validacao(apierror.CodigoValidacao, "Não foi possível gerar o código do produto a partir dos dados informados")
	}
	existentes, err := s.produtos.WithTx(tx).IDsComPrefixo(ctx, prefixo)
	if err != nil {
		return "", err
	}
	return ProximoCodigo(prefixo, existentes)
}

func (s *produtoService) Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if req.QuantidadeInicial < 0 {
		return nil, apierror.Validacao(apierror.CodigoValidacao, "A quantidade inicial não pode ser negativa")
	}

	var p *model.Produto
	var err error
	for tentativa := 1; tentativa <= tentativasCodigo; tentativa++ {
		p, err = s.criar(ctx, usuarioID, req)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		log.Warn().Int("tentativa", tentativa).Msg("produto: codigo em uso, gerando outro")
	}
	if err != nil {
		return nil, err
	}

	if req.QuantidadeInicial > 0 {
		contabilizar(model.MovEntrada, req.QuantidadeInicial)
	}
	log.Info().Str("produto_id", p.ID).Str("nome", p.Nome).Msg("produto criado")
	return s.Obter(ctx, p.ID)
}

func (s *produtoService) criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*model.Produto, error) {
	p := &model.Produto{
		Nome:         strings.TrimSpace(req.Nome),
		Tipo:         strings.TrimSpace(req.Tipo),
		Categoria:    strings.TrimSpace(req.Categoria),
		Subcategoria: strings.TrimSpace(req.Subcategoria),
		Imagem:       req.Imagem,
		CriadoPor:    &usuarioID,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.ops.validarLocalAtivo(ctx, tx, req.LocalID); err != nil {
			return err
		}
		codigo, err := s.GerarCodigoProduto(ctx, tx, p.Tipo, p.Categoria, p.Subcategoria, p.Nome)
		if err != nil {
			return err
		}
		p.ID = codigo
		if err := s.produtos.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}

		// The initial row exists even at quantity zero so the product shows up
		// at its location and is flagged as empty.
		if err := s.ops.creditarTx(ctx, tx, p.ID, req.LocalID, req.QuantidadeInicial, &usuarioID); err != nil {
			return err
		}
		if req.QuantidadeInicial > 0 {
			m := &model.Movimentacao{
				Tipo:          model.MovEntrada,
				ProdutoID:     p.ID,
				Quantidade:    req.QuantidadeInicial,
				LocalOrigemID: req.LocalID,
				UsuarioID:     &usuarioID,
				Observacao:    opcional("Estoque inicial"),
			}
			if err := s.ops.registrarTx(ctx, tx, m); err != nil {
				return err
			}
		}
		return s.ops.recalcularTx(ctx, tx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *produtoService) Obter(ctx context.Context, id string) (*dto.ProdutoResponse, error) {
	p, err := s.produtos.FindByID(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Produto não encontrado")
	}
	estoques, total, err := estoquesDoProduto(ctx, s.estoques, s.locais, id)
	if err != nil {
		return nil, err
	}
	resp := produtoToResponse(p, total)
	resp.Estoques = estoques
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	produtos, total, err := s.produtos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(produtos))
	for i, p := range produtos {
		ids[i] = p.ID
	}
	somas, err := s.estoques.SomaPorProdutos(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdutoResponse, len(produtos))
	for i := range produtos {
		out[i] = produtoToResponse(&produtos[i], somas[produtos[i].ID])
	}
	return &dto.ProdutoListResponse{Produtos: out, PaginacaoResponse: dto.NovaPaginacao(filter.Paginacao, total)}, nil
}

// Atualizar edits descriptive fields only; the code is never regenerated.
func (s *produtoService) Atualizar(ctx context.Context, id string, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.produtos.FindByID(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Produto não encontrado")
	}
	if req.Nome != nil {
		p.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Tipo != nil {
		p.Tipo = strings.TrimSpace(*req.Tipo)
	}
	if req.Categoria != nil {
		p.Categoria = strings.TrimSpace(*req.Categoria)
	}
	if req.Subcategoria != nil {
		p.Subcategoria = strings.TrimSpace(*req.Subcategoria)
	}
	if req.Imagem != nil {
		p.Imagem = opcional(*req.Imagem)
	}
	if err := s.produtos.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Obter(ctx, id)
}

// ZerarEstoque empties every location of the product, writing one saida per
// location so the log still explains where the units went.
func (s *produtoService) ZerarEstoque(ctx context.Context, usuarioID uuid.UUID, id string) (*dto.ZerarEstoqueResponse, error) {
	resp := &dto.ZerarEstoqueResponse{ProdutoID: id}
	var movs []*model.Movimentacao

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.ops.validarProduto(ctx, tx, id); err != nil {
			return err
		}
		rows, err := s.estoques.WithTx(tx).ListByProduto(ctx, id)
		if err != nil {
			return err
		}
		for _, e := range rows {
			if e.Quantidade <= 0 {
				continue
			}
			if err := s.ops.debitarTx(ctx, tx, id, e.LocalID, e.Quantidade, &usuarioID); err != nil {
				return err
			}
			m := &model.Movimentacao{
				Tipo:          model.MovSaida,
				ProdutoID:     id,
				Quantidade:    e.Quantidade,
				LocalOrigemID: e.LocalID,
				UsuarioID:     &usuarioID,
				Observacao:    opcional("Estoque zerado para exclusão"),
			}
			if err := s.ops.registrarTx(ctx, tx, m); err != nil {
				return err
			}
			movs = append(movs, m)
			resp.LocaisZerados++
			resp.QuantidadeRemovida += int64(e.Quantidade)
		}
		return s.ops.recalcularTx(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	for _, m := range movs {
		contabilizar(m.Tipo, m.Quantidade)
	}
	log.Info().
		Str("produto_id", id).
		Int("locais", resp.LocaisZerados).
		Int64("quantidade", resp.QuantidadeRemovida).
		Msg("estoque do produto zerado")
	return resp, nil
}

// Excluir removes a product whose stock is zero everywhere. A closing saida
// with quantity zero stays in the log as the record of the removal.
func (s *produtoService) Excluir(ctx context.Context, usuarioID uuid.UUID, id string) error {
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.ops.validarProduto(ctx, tx, id); err != nil {
			return err
		}
		// Locked before reading stock so no entrada lands between the check
		// and DeleteByProduto.
		if err := s.produtos.WithTx(tx).Travar(ctx, id); err != nil {
			return err
		}
		rows, err := s.estoques.WithTx(tx).ListByProduto(ctx, id)
		if err != nil {
			return err
		}
		var restante int64
		for _, e := range rows {
			restante += int64(e.Quantidade)
		}
		if restante > 0 {
			return rejeitar(apierror.CodigoProdutoComEstoque,
				fmt.Sprintf("O produto ainda possui %d unidades em estoque; zere o estoque antes de excluir", restante))
		}

		local, err := s.localDeFechamento(ctx, tx, id, rows)
		if err != nil {
			return err
		}
		m := &model.Movimentacao{
			Tipo:          model.MovSaida,
			ProdutoID:     id,
			Quantidade:    0,
			LocalOrigemID: local,
			UsuarioID:     &usuarioID,
			Observacao:    opcional("Produto excluído"),
		}
		if err := s.ops.registrarTx(ctx, tx, m); err != nil {
			return err
		}

		if err := s.estoques.WithTx(tx).DeleteByProduto(ctx, id); err != nil {
			return err
		}
		return s.produtos.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("produto_id", id).Str("usuario_id", usuarioID.String()).Msg("produto excluido")
	return nil
}

// localDeFechamento picks where the closing movement is recorded: a stock row
// if any is left, else the origin of the last movement, else any location.
func (s *produtoService) localDeFechamento(ctx context.Context, tx *gorm.DB, id string, rows []model.Estoque) (string, error) {
	if len(rows) > 0 {
		return rows[0].LocalID, nil
	}
	local, err := s.ops.movimentacoes.WithTx(tx).UltimoLocal(ctx, id)
	if err != nil || local != "" {
		return local, err
	}
	locais, err := s.locais.WithTx(tx).List(ctx, nil)
	if err != nil {
		return "", err
	}
	if len(locais) == 0 {
		return localDesconhecido, nil
	}
	return locais[0].ID, nil
}

// ListarCategorias folds the distinct triples into a tipo → categoria → subcategoria tree.
func (s *produtoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaArvore, error) {
	linhas, err := s.produtos.Categorias(ctx)
	if err != nil {
		return nil, err
	}
	arvore := []dto.CategoriaArvore{}
	for _, l := range linhas {
		if n := len(arvore); n == 0 || arvore[n-1].Tipo != l.Tipo {
			arvore = append(arvore, dto.CategoriaArvore{Tipo: l.Tipo})
		}
		t := &arvore[len(arvore)-1]
		if n := len(t.Categorias); n == 0 || t.Categorias[n-1].Categoria != l.Categoria {
			t.Categorias = append(t.Categorias, dto.CategoriaNode{Categoria: l.Categoria})
		}
		c := &t.Categorias[len(t.Categorias)-1]
		c.Subcategorias = append(c.Subcategorias, l.Subcategoria)
	}
	return arvore, nil
}

func produtoToResponse(p *model.Produto, total int64) dto.ProdutoResponse {
	return dto.ProdutoResponse{
		ID:                p.ID,
		Nome:              p.Nome,
		Tipo:              p.Tipo,
		Categoria:         p.Categoria,
		Subcategoria:      p.Subcategoria,
		Imagem:            p.Imagem,
		CriadoPor:         uuidStr(p.CriadoPor),
		CriadoEm:          p.CriadoEm,
		AtualizadoEm:      p.AtualizadoEm,
		TemEstoqueBaixo:   p.TemEstoqueBaixo,
		TemEstoqueCritico: p.TemEstoqueCritico,
		TemEstoqueZerado:  p.TemEstoqueZerado,
		QuantidadeTotal:   total,
	}
}
