// seeduser creates or updates an admin account. Public sign-up only creates
// funcionario accounts, so this is how the first admin gets in.
//
//	go run ./cmd/seeduser -email admin@estoque.local -senha segredo123
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	nome := flag.String("nome", "Administrador", "nome do usuário")
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "email de login")
	senha := flag.String("senha", os.Getenv("SEED_ADMIN_SENHA"), "senha (mínimo 6 caracteres)")
	flag.Parse()

	if *email == "" || len(*senha) < 6 {
		log.Fatal().Msg("informe -email e -senha (mínimo 6 caracteres)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*senha), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res := db.WithContext(ctx).Exec(`
		INSERT INTO usuarios (id, nome, email, senha_hash, role, criado_em, atualizado_em)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET senha_hash    = EXCLUDED.senha_hash,
		    nome          = EXCLUDED.nome,
		    role          = EXCLUDED.role,
		    atualizado_em = NOW()
	`, uuid.New(), *nome, *email, string(hash), model.RoleAdmin)
	if res.Error != nil {
		log.Fatal().Err(res.Error).Msg("insert admin")
	}
	log.Info().Str("email", *email).Msg("admin user created/updated")
}
