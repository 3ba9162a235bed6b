package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Notificador delivers the password reset link. worker.Dispatcher queues it
// on Redis; without Redis the mailer is called directly.
type Notificador interface {
	EnviarRecuperacaoSenha(ctx context.Context, nome, email, link string) error
}

type RecuperacaoSenhaService interface {
	// Solicitar never reveals whether the e-mail is registered.
	Solicitar(ctx context.Context, req dto.SolicitarRecuperacaoRequest) error
	Validar(ctx context.Context, token string) (*dto.ValidarTokenResponse, error)
	Redefinir(ctx context.Context, token string, req dto.RedefinirSenhaRequest) error
}

type recuperacaoSenhaService struct {
	db          *gorm.DB
	usuarios    repository.UsuarioRepository
	tokens      repository.RecuperacaoSenhaRepository
	notificador Notificador
	frontendURL string
	validade    time.Duration
	agora       func() time.Time
}

func NewRecuperacaoSenhaService(
	usuarios repository.UsuarioRepository,
	tokens repository.RecuperacaoSenhaRepository,
	notificador Notificador,
	frontendURL string,
	validade time.Duration,
) RecuperacaoSenhaService {
	return &recuperacaoSenhaService{
		db:          usuarios.DB(),
		usuarios:    usuarios,
		tokens:      tokens,
		notificador: notificador,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		validade:    validade,
		agora:       time.Now,
	}
}

func (s *recuperacaoSenhaService) Solicitar(ctx context.Context, req dto.SolicitarRecuperacaoRequest) error {
	user, err := s.usuarios.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Info().Msg("recuperacao: e-mail nao cadastrado, ignorando")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := novoToken()
	if err != nil {
		return err
	}
	rec := &model.RecuperacaoSenha{
		UsuarioID: user.ID,
		Token:     token,
		ExpiraEm:  s.agora().Add(s.validade),
	}
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		tokens := s.tokens.WithTx(tx)
		if err := tokens.InvalidarPendentes(ctx, user.ID); err != nil {
			return err
		}
		return tokens.Create(ctx, rec)
	})
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/redefinir-senha/%s", s.frontendURL, token)
	if err := s.notificador.EnviarRecuperacaoSenha(ctx, user.Nome, user.Email, link); err != nil {
		log.Error().Err(err).Str("usuario_id", user.ID.String()).Msg("recuperacao: falha ao enfileirar e-mail")
	}
	return nil
}

func (s *recuperacaoSenhaService) Validar(ctx context.Context, token string) (*dto.ValidarTokenResponse, error) {
	rec, err := s.tokens.FindByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.ValidarTokenResponse{Valido: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !rec.Valido(s.agora()) {
		return &dto.ValidarTokenResponse{Valido: false}, nil
	}
	user, err := s.usuarios.FindByID(ctx, rec.UsuarioID)
	if err != nil {
		return &dto.ValidarTokenResponse{Valido: false}, nil
	}
	return &dto.ValidarTokenResponse{Valido: true, Email: user.Email}, nil
}

func (s *recuperacaoSenhaService) Redefinir(ctx context.Context, token string, req dto.RedefinirSenhaRequest) error {
	invalido := apierror.Validacao(apierror.CodigoTokenInvalido, "Token de recuperação inválido ou expirado")

	rec, err := s.tokens.FindByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalido
	}
	if err != nil {
		return err
	}
	if !rec.Valido(s.agora()) {
		return invalido
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), bcryptCost)
	if err != nil {
		return err
	}
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		ok, err := s.tokens.WithTx(tx).MarcarUsado(ctx, rec.ID)
		if err != nil {
			return err
		}
		if !ok {
			return invalido
		}
		return s.usuarios.WithTx(tx).UpdateSenha(ctx, rec.UsuarioID, string(hash))
	})
	if err != nil {
		return err
	}
	log.Info().Str("usuario_id", rec.UsuarioID.String()).Msg("recuperacao: senha redefinida")
	return nil
}

// novoToken returns 32 random bytes hex-encoded (64 chars).
func novoToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
