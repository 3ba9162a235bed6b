package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var rotulosTipoLocal = map[string]string{
	"deposito":   "Depósito",
	"prateleira": "Prateleira",
	"vitrine":    "Vitrine",
	"reserva":    "Reserva",
	"outro":      "Outro",
}

type LocalService interface {
	Criar(ctx context.Context, usuarioID *uuid.UUID, req dto.CriarLocalRequest) (*dto.LocalResponse, error)
	Obter(ctx context.Context, id string) (*dto.LocalResponse, error)
	Listar(ctx context.Context, filter dto.LocalFilter) ([]dto.LocalResponse, error)
	Atualizar(ctx context.Context, id string, req dto.AtualizarLocalRequest) (*dto.LocalResponse, error)
	Excluir(ctx context.Context, id string) error
	Nomes(ctx context.Context) ([]dto.LocalNome, error)
	Tipos() []dto.LocalTipo
	// GarantirPadrao creates the configured default locations that are missing.
	GarantirPadrao(ctx context.Context, nomes []string) error
}

type localService struct {
	db       *gorm.DB
	locais   repository.LocalRepository
	estoques repository.EstoqueRepository
}

func NewLocalService(db *gorm.DB, locais repository.LocalRepository, estoques repository.EstoqueRepository) LocalService {
	return &localService{db: db, locais: locais, estoques: estoques}
}

func (s *localService) Criar(ctx context.Context, usuarioID *uuid.UUID, req dto.CriarLocalRequest) (*dto.LocalResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	if _, err := s.locais.FindByNome(ctx, nome); err == nil {
		return nil, apierror.Regra(apierror.CodigoDuplicado, fmt.Sprintf("Já existe um local chamado %s", nome))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, err := s.idLivre(ctx, nome)
	if err != nil {
		return nil, err
	}

	l := &model.Local{
		ID:        id,
		Nome:      nome,
		Descricao: req.Descricao,
		Tipo:      req.Tipo,
		Ativo:     true,
		CriadoPor: usuarioID,
	}
	if l.Tipo == "" {
		l.Tipo = "deposito"
	}
	if req.Ativo != nil {
		l.Ativo = *req.Ativo
	}
	if err := s.locais.Create(ctx, l); err != nil {
		return nil, err
	}
	log.Info().Str("local_id", l.ID).Str("nome", l.Nome).Msg("local criado")
	return localToResponse(l), nil
}

// idLivre derives the slug for nome, suffixing -2, -3... when a different
// location already owns it (e.g. a renamed one kept its original id).
func (s *localService) idLivre(ctx context.Context, nome string) (string, error) {
	base := slug(nome)
	if base == "" {
		return "", apierror.Validacao(apierror.CodigoValidacao, "Nome do local inválido")
	}
	id := base
	for n := 2; ; n++ {
		existe, err := s.locais.IDEmUso(ctx, id)
		if err != nil {
			return "", err
		}
		if !existe {
			return id, nil
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

func (s *localService) Obter(ctx context.Context, id string) (*dto.LocalResponse, error) {
	l, err := s.locais.FindByID(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Local não encontrado")
	}
	return localToResponse(l), nil
}

func (s *localService) Listar(ctx context.Context, filter dto.LocalFilter) ([]dto.LocalResponse, error) {
	var ativo *bool
	if filter.Ativo != "" {
		v, err := strconv.ParseBool(filter.Ativo)
		if err != nil {
			return nil, apierror.Validacao(apierror.CodigoValidacao, "O filtro ativo deve ser true ou false")
		}
		ativo = &v
	}
	locais, err := s.locais.List(ctx, ativo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocalResponse, len(locais))
	for i := range locais {
		out[i] = *localToResponse(&locais[i])
	}
	return out, nil
}

// Atualizar never touches the id, so stock and history keep pointing at the
// same location after a rename.
func (s *localService) Atualizar(ctx context.Context, id string, req dto.AtualizarLocalRequest) (*dto.LocalResponse, error) {
	l, err := s.locais.FindByID(ctx, id)
	if err != nil {
		return nil, naoEncontrado(err, "Local não encontrado")
	}
	if req.Nome != nil {
		nome := strings.TrimSpace(*req.Nome)
		outro, err := s.locais.FindByNome(ctx, nome)
		switch {
		case err == nil && outro.ID != l.ID:
			return nil, apierror.Regra(apierror.CodigoDuplicado, fmt.Sprintf("Já existe um local chamado %s", nome))
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		l.Nome = nome
	}
	if req.Descricao != nil {
		l.Descricao = opcional(*req.Descricao)
	}
	if req.Tipo != nil {
		l.Tipo = *req.Tipo
	}
	if req.Ativo != nil {
		l.Ativo = *req.Ativo
	}
	if err := s.locais.Update(ctx, l); err != nil {
		return nil, err
	}
	return localToResponse(l), nil
}

func (s *localService) Excluir(ctx context.Context, id string) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.locais.WithTx(tx).FindByID(ctx, id); err != nil {
			return naoEncontrado(err, "Local não encontrado")
		}
		temSaldo, err := s.estoques.WithTx(tx).ExisteSaldoNoLocal(ctx, id)
		if err != nil {
			return err
		}
		if temSaldo {
			return rejeitar(apierror.CodigoLocalComEstoque,
				"O local possui produtos em estoque; transfira ou zere o estoque antes de excluir")
		}
		if err := s.estoques.WithTx(tx).DeleteByLocal(ctx, id); err != nil {
			return err
		}
		if err := s.locais.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		log.Info().Str("local_id", id).Msg("local excluido")
		return nil
	})
}

func (s *localService) Nomes(ctx context.Context) ([]dto.LocalNome, error) {
	ativo := true
	locais, err := s.locais.List(ctx, &ativo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocalNome, len(locais))
	for i, l := range locais {
		out[i] = dto.LocalNome{ID: l.ID, Nome: l.Nome}
	}
	return out, nil
}

func (s *localService) Tipos() []dto.LocalTipo {
	out := make([]dto.LocalTipo, len(model.TiposLocal))
	for i, t := range model.TiposLocal {
		out[i] = dto.LocalTipo{Valor: t, Rotulo: rotulosTipoLocal[t]}
	}
	return out
}

func (s *localService) GarantirPadrao(ctx context.Context, nomes []string) error {
	for _, nome := range nomes {
		_, err := s.locais.FindByNome(ctx, nome)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("garantir local padrao %q: %w", nome, err)
		}
		if _, err := s.Criar(ctx, nil, dto.CriarLocalRequest{Nome: nome, Tipo: "deposito"}); err != nil {
			return fmt.Errorf("garantir local padrao %q: %w", nome, err)
		}
	}
	return nil
}

func localToResponse(l *model.Local) *dto.LocalResponse {
	return &dto.LocalResponse{
		ID:           l.ID,
		Nome:         l.Nome,
		Descricao:    l.Descricao,
		Tipo:         l.Tipo,
		Ativo:        l.Ativo,
		CriadoEm:     l.CriadoEm,
		AtualizadoEm: l.AtualizadoEm,
	}
}
