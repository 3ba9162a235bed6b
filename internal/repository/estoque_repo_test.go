package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/testutil"
)

// ── SQL shape (sqlmock) ───────────────────────────────────────────────────────

func TestDecrementarSeDisponivel_GuardaNaClausulaWhere(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewEstoqueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "estoques" SET`) + `.*"quantidade"=quantidade - \$\d.*` +
		regexp.QuoteMeta(`WHERE produto_id = `) + `\$\d AND local_id = \$\d AND quantidade >= \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DecrementarSeDisponivel(context.Background(), "RCMCBA01", "loja", 5, nil)
	require.NoError(t, err)
	assert.False(t, ok, "no row matched the guard")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementarSeDisponivel_UmaLinha(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewEstoqueRepository(db)
	usuario := uuid.New()

	mock.ExpectExec(`UPDATE "estoques" SET .* WHERE produto_id = .* AND quantidade >= `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.DecrementarSeDisponivel(context.Background(), "RCMCBA01", "loja", 5, &usuario)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementar_UpsertPorProdutoELocal(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewEstoqueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "estoques"`) + `.*` +
		regexp.QuoteMeta(`ON CONFLICT ("produto_id","local_id") DO UPDATE SET`) + `.*estoques\.quantidade \+ \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Incrementar(context.Background(), "RCMCBA01", "loja", 3, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProximaSequencia_ProdutoInexistente(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewProdutoRepository(db)

	mock.ExpectExec(`UPDATE "produtos" SET "ultima_sequencia"=ultima_sequencia \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.ProximaSequencia(context.Background(), "NAOEXISTE01")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ── Behaviour (SQLite) ────────────────────────────────────────────────────────

func semear(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Local{ID: "loja", Nome: "Loja", Tipo: "deposito", Ativo: true}).Error)
	require.NoError(t, db.Create(&model.Produto{ID: "RCMCBA01", Nome: "Camiseta", Tipo: "Roupa", Categoria: "Camiseta", Subcategoria: "Lisa"}).Error)
}

func TestEstoque_IncrementarEDecrementar(t *testing.T) {
	db := testutil.NewTestDB(t)
	semear(t, db)
	repo := NewEstoqueRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Incrementar(ctx, "RCMCBA01", "loja", 4, nil))
	require.NoError(t, repo.Incrementar(ctx, "RCMCBA01", "loja", 6, nil))

	e, err := repo.Find(ctx, "RCMCBA01", "loja")
	require.NoError(t, err)
	assert.Equal(t, 10, e.Quantidade)

	ok, err := repo.DecrementarSeDisponivel(ctx, "RCMCBA01", "loja", 11, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementarSeDisponivel(ctx, "RCMCBA01", "loja", 10, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	e, err = repo.Find(ctx, "RCMCBA01", "loja")
	require.NoError(t, err)
	assert.Zero(t, e.Quantidade)

	tem, err := repo.ExisteSaldoNoLocal(ctx, "loja")
	require.NoError(t, err)
	assert.False(t, tem)
}

func TestProduto_SequenciaMonotonica(t *testing.T) {
	db := testutil.NewTestDB(t)
	semear(t, db)
	repo := NewProdutoRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.ProximaSequencia(ctx, "RCMCBA01")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	require.NoError(t, repo.Travar(ctx, "RCMCBA01"))
	got, err := repo.ProximaSequencia(ctx, "RCMCBA01")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	require.ErrorIs(t, repo.Travar(ctx, "OUTRO01"), gorm.ErrRecordNotFound)
}

func TestMovimentacao_OrfasDeProdutosRemovidos(t *testing.T) {
	db := testutil.NewTestDB(t)
	semear(t, db)
	movs := NewMovimentacaoRepository(db)
	ctx := context.Background()

	require.NoError(t, movs.Create(ctx, &model.Movimentacao{Tipo: model.MovEntrada, ProdutoID: "RCMCBA01", Quantidade: 1, LocalOrigemID: "loja", Sequencia: 1}))
	require.NoError(t, movs.Create(ctx, &model.Movimentacao{Tipo: model.MovEntrada, ProdutoID: "SUMIU01", Quantidade: 1, LocalOrigemID: "loja", Sequencia: 1}))

	n, err := movs.CountOrfas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = movs.DeleteOrfas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	maxSeq, err := movs.MaxSequencia(ctx, "RCMCBA01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), maxSeq)
}

func TestProduto_IDsComPrefixoIncluiHistorico(t *testing.T) {
	db := testutil.NewTestDB(t)
	semear(t, db)
	ctx := context.Background()

	// Codes of removed products survive in the movement and sale logs.
	require.NoError(t, NewMovimentacaoRepository(db).Create(ctx, &model.Movimentacao{
		Tipo: model.MovSaida, ProdutoID: "RCMCBA02", LocalOrigemID: "loja", Sequencia: 3,
	}))
	require.NoError(t, db.Create(&model.Venda{ProdutoID: "RCMCBA03", Quantidade: 1, LocalID: "loja", DataVenda: time.Now()}).Error)
	require.NoError(t, db.Create(&model.Venda{ProdutoID: "RCMCBA03", Quantidade: 2, LocalID: "loja", DataVenda: time.Now()}).Error)
	require.NoError(t, db.Create(&model.Venda{ProdutoID: "XPTO01", Quantidade: 1, LocalID: "loja", DataVenda: time.Now()}).Error)

	ids, err := NewProdutoRepository(db).IDsComPrefixo(ctx, "RCMCBA")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"RCMCBA01", "RCMCBA02", "RCMCBA03"}, ids)
}

func TestLocal_IDEmUso(t *testing.T) {
	db := testutil.NewTestDB(t)
	semear(t, db)
	locais := NewLocalRepository(db)
	ctx := context.Background()

	require.NoError(t, NewMovimentacaoRepository(db).Create(ctx, &model.Movimentacao{
		Tipo: model.MovTransferencia, ProdutoID: "RCMCBA01", Quantidade: 1,
		LocalOrigemID: "loja", LocalDestinoID: ptr("vitrine-antiga"), Sequencia: 1,
	}))

	tests := []struct {
		id   string
		want bool
	}{
		{"loja", true},
		{"vitrine-antiga", true},
		{"deposito", false},
	}
	for _, tt := range tests {
		emUso, err := locais.IDEmUso(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, emUso, tt.id)
	}
}

func ptr[T any](v T) *T { return &v }
