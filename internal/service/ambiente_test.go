package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"
	"github.com/RxSaturn/estoque-facil-sub001/internal/testutil"
)

// ambiente wires the stock services over a fresh SQLite database.
type ambiente struct {
	db      *gorm.DB
	ctx     context.Context
	usuario uuid.UUID

	produtoRepo repository.ProdutoRepository
	estoqueRepo repository.EstoqueRepository
	movRepo     repository.MovimentacaoRepository

	estoque    EstoqueService
	produtos   ProdutoService
	movs       MovimentacaoService
	vendas     VendaService
	locais     LocalService
	relatorios RelatorioService
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	db := testutil.NewTestDB(t)

	produtoRepo := repository.NewProdutoRepository(db)
	estoqueRepo := repository.NewEstoqueRepository(db)
	localRepo := repository.NewLocalRepository(db)
	movRepo := repository.NewMovimentacaoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	relatorioRepo := repository.NewRelatorioRepository(db)

	estoque := NewEstoqueService(produtoRepo, estoqueRepo, localRepo, DefaultLimites())
	vendas := NewVendaService(produtoRepo, estoqueRepo, localRepo, movRepo, vendaRepo, estoque)

	return &ambiente{
		db:          db,
		ctx:         context.Background(),
		usuario:     uuid.New(),
		produtoRepo: produtoRepo,
		estoqueRepo: estoqueRepo,
		movRepo:     movRepo,
		estoque:     estoque,
		produtos:    NewProdutoService(produtoRepo, estoqueRepo, localRepo, movRepo, estoque),
		movs:        NewMovimentacaoService(produtoRepo, estoqueRepo, localRepo, movRepo, estoque, vendas, 30*24*time.Hour),
		vendas:      vendas,
		locais:      NewLocalService(db, localRepo, estoqueRepo),
		relatorios:  NewRelatorioService(relatorioRepo, produtoRepo, estoqueRepo, movRepo, vendaRepo, localRepo, 10, 366),
	}
}

func (a *ambiente) local(t *testing.T, nome string) string {
	t.Helper()
	l, err := a.locais.Criar(a.ctx, &a.usuario, dto.CriarLocalRequest{Nome: nome})
	require.NoError(t, err)
	return l.ID
}

func (a *ambiente) produto(t *testing.T, nome, localID string, qtd int) string {
	t.Helper()
	p, err := a.produtos.Criar(a.ctx, a.usuario, dto.CriarProdutoRequest{
		Nome:              nome,
		Tipo:              "Roupa",
		Categoria:         "Camiseta",
		Subcategoria:      "Manga Curta",
		LocalID:           localID,
		QuantidadeInicial: qtd,
	})
	require.NoError(t, err)
	return p.ID
}

func (a *ambiente) movimentar(t *testing.T, tipo, produtoID, origem, destino string, qtd int) uuid.UUID {
	t.Helper()
	m, err := a.movs.Registrar(a.ctx, a.usuario, dto.RegistrarMovimentacaoRequest{
		Tipo:           tipo,
		ProdutoID:      produtoID,
		Quantidade:     qtd,
		LocalOrigemID:  origem,
		LocalDestinoID: destino,
	})
	require.NoError(t, err)
	return uuid.MustParse(m.ID)
}

// qtd reads one stock row; a missing row counts as zero.
func (a *ambiente) qtd(t *testing.T, produtoID, localID string) int {
	t.Helper()
	e, err := a.estoqueRepo.Find(a.ctx, produtoID, localID)
	if err != nil {
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return 0
	}
	return e.Quantidade
}

func requireCodigo(t *testing.T, err error, codigo string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, codigo, apierror.From(err).Codigo, "err: %v", err)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
