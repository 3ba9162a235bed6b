package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Registrar is the public sign-up; it always creates a funcionario.
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error)
	Verificar(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	credenciais := apierror.NaoAutenticado(apierror.CodigoCredenciais, "E-mail ou senha inválidos")

	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, credenciais
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		log.Warn().Str("email", user.Email).Msg("auth: senha incorreta")
		return nil, credenciais
	}
	return s.sessao(user)
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error) {
	user, err := criarUsuario(ctx, s.repo, req.Nome, req.Email, req.Senha, model.RoleFuncionario)
	if err != nil {
		return nil, err
	}
	log.Info().Str("usuario_id", user.ID.String()).Msg("auth: usuario registrado")
	return s.sessao(user)
}

func (s *authService) Verificar(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NaoAutenticado(apierror.CodigoTokenInvalido, "Usuário do token não existe mais")
	}
	if err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) sessao(user *model.Usuario) (*dto.LoginResponse, error) {
	expira := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	token, err := s.generateToken(user, expira)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiraEm: expira, Usuario: usuarioToResponse(user)}, nil
}

func (s *authService) generateToken(user *model.Usuario, expira time.Time) (string, error) {
	claims := jwt.MapClaims{
		"usuario_id": user.ID.String(),
		"email":      user.Email,
		"nome":       user.Nome,
		"role":       user.Role,
		"exp":        expira.Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// criarUsuario hashes the password and inserts the user, mapping a taken
// e-mail to a DUPLICADO error.
func criarUsuario(ctx context.Context, repo repository.UsuarioRepository, nome, email, senha, role string) (*model.Usuario, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, apierror.Regra(apierror.CodigoDuplicado, "Já existe um usuário com este e-mail")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nome:      strings.TrimSpace(nome),
		Email:     email,
		SenhaHash: string(hash),
		Role:      role,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Regra(apierror.CodigoDuplicado, "Já existe um usuário com este e-mail")
		}
		return nil, err
	}
	return user, nil
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Nome:     u.Nome,
		Email:    u.Email,
		Role:     u.Role,
		CriadoEm: u.CriadoEm,
	}
}
