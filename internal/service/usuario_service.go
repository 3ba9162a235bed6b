package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UsuarioService interface {
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	Criar(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Excluir(ctx context.Context, solicitanteID, id uuid.UUID) error
	// AlterarSenha lets an admin reset anyone's password; other users must
	// target themselves and prove the current password.
	AlterarSenha(ctx context.Context, solicitante *model.Usuario, id uuid.UUID, req dto.AlterarSenhaRequest) error
}

type usuarioService struct {
	repo repository.UsuarioRepository
}

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *usuarioService) Obter(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Usuário não encontrado")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Criar(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := criarUsuario(ctx, s.repo, req.Nome, req.Email, req.Senha, req.Role)
	if err != nil {
		return nil, err
	}
	log.Info().Str("usuario_id", user.ID.String()).Str("role", user.Role).Msg("usuario criado")
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Usuário não encontrado")
	}
	if req.Nome != nil {
		user.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		outro, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && outro.ID != user.ID:
			return nil, apierror.Regra(apierror.CodigoDuplicado, "Já existe um usuário com este e-mail")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		user.Email = email
	}
	if req.Role != nil && *req.Role != user.Role {
		if user.Role == model.RoleAdmin {
			if err := s.garantirOutroAdmin(ctx); err != nil {
				return nil, err
			}
		}
		user.Role = *req.Role
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Excluir(ctx context.Context, solicitanteID, id uuid.UUID) error {
	if solicitanteID == id {
		return apierror.Regra(apierror.CodigoValidacao, "Você não pode excluir o próprio usuário")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return naoEncontrado(err, "Usuário não encontrado")
	}
	if user.IsAdmin() {
		if err := s.garantirOutroAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return naoEncontrado(err, "Usuário não encontrado")
	}
	log.Info().Str("usuario_id", id.String()).Str("por", solicitanteID.String()).Msg("usuario excluido")
	return nil
}

// garantirOutroAdmin refuses to demote or delete the last administrator.
func (s *usuarioService) garantirOutroAdmin(ctx context.Context) error {
	n, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apierror.Regra(apierror.CodigoValidacao, "O sistema precisa de pelo menos um administrador")
	}
	return nil
}

func (s *usuarioService) AlterarSenha(ctx context.Context, solicitante *model.Usuario, id uuid.UUID, req dto.AlterarSenhaRequest) error {
	if !solicitante.IsAdmin() && solicitante.ID != id {
		return apierror.Proibido("Você só pode alterar a própria senha")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return naoEncontrado(err, "Usuário não encontrado")
	}
	if !solicitante.IsAdmin() {
		if req.SenhaAtual == "" {
			return apierror.CamposInvalidos(map[string]string{"senhaAtual": "required"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.SenhaAtual)); err != nil {
			return apierror.Validacao(apierror.CodigoCredenciais, "Senha atual incorreta")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateSenha(ctx, id, string(hash))
}
