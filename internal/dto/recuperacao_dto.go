package dto

type SolicitarRecuperacaoRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RedefinirSenhaRequest struct {
	NovaSenha string `json:"novaSenha" validate:"required,min=6,max=72"`
}

type ValidarTokenResponse struct {
	Valido bool   `json:"valido"`
	Email  string `json:"email,omitempty"`
}
