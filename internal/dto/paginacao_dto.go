package dto

// Paginacao is embedded in list filters bound from the query string.
type Paginacao struct {
	Pagina int `form:"pagina,default=1"  validate:"min=1"`
	Limite int `form:"limite,default=20" validate:"min=1,max=100"`
}

// Offset returns the row offset for the requested page.
func (p Paginacao) Offset() int { return (p.Pagina - 1) * p.Limite }

type PaginacaoResponse struct {
	Total        int64 `json:"total"`
	Pagina       int   `json:"pagina"`
	Limite       int   `json:"limite"`
	TotalPaginas int   `json:"totalPaginas"`
}

func NovaPaginacao(p Paginacao, total int64) PaginacaoResponse {
	paginas := 0
	if p.Limite > 0 {
		paginas = int((total + int64(p.Limite) - 1) / int64(p.Limite))
	}
	return PaginacaoResponse{Total: total, Pagina: p.Pagina, Limite: p.Limite, TotalPaginas: paginas}
}

// LimpezaResponse answers the bulk cleanup endpoints; with Preview nothing is deleted.
type LimpezaResponse struct {
	Preview    bool  `json:"preview"`
	Quantidade int64 `json:"quantidade"`
}
