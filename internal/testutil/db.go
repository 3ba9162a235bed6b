// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

// Models lists every table, in creation order.
var Models = []any{
	&model.Usuario{},
	&model.RecuperacaoSenha{},
	&model.Local{},
	&model.Produto{},
	&model.Estoque{},
	&model.Movimentacao{},
	&model.Venda{},
}

// NewTestDB returns an in-memory SQLite database with the schema created by
// AutoMigrate. A single connection keeps every query on the same memory DB,
// so code under test must route queries inside a transaction through the tx.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models...))
	return db
}

// NewMockDB returns a GORM handle over go-sqlmock speaking the postgres dialect.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}
