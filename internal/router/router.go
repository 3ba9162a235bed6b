package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
	"github.com/RxSaturn/estoque-facil-sub001/internal/handler"
	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
	"github.com/RxSaturn/estoque-facil-sub001/internal/middleware"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/repository"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
)

// Servicos is the service layer wired over one *gorm.DB. cmd/server also
// uses it for start-up seeding and the flag reconciliation cron.
type Servicos struct {
	Auth          service.AuthService
	Usuarios      service.UsuarioService
	Recuperacao   service.RecuperacaoSenhaService
	Estoque       service.EstoqueService
	Produtos      service.ProdutoService
	Movimentacoes service.MovimentacaoService
	Vendas        service.VendaService
	Locais        service.LocalService
	Relatorios    service.RelatorioService
	Dashboard     service.DashboardService
}

// NovosServicos builds the dependency graph Service ← Repository ← DB/Redis.
// rdb may be nil.
func NovosServicos(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notificador service.Notificador) *Servicos {
	usuarioRepo := repository.NewUsuarioRepository(db)
	recuperacaoRepo := repository.NewRecuperacaoSenhaRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	estoqueRepo := repository.NewEstoqueRepository(db)
	localRepo := repository.NewLocalRepository(db)
	movimentacaoRepo := repository.NewMovimentacaoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	relatorioRepo := repository.NewRelatorioRepository(db)

	limites := service.LimitesEstoque{Critico: cfg.EstoqueLimiteCritico, Baixo: cfg.EstoqueLimiteBaixo}

	estoqueSvc := service.NewEstoqueService(produtoRepo, estoqueRepo, localRepo, limites)
	vendaSvc := service.NewVendaService(produtoRepo, estoqueRepo, localRepo, movimentacaoRepo, vendaRepo, estoqueSvc)

	movimentacaoSvc := service.NewMovimentacaoService(produtoRepo, estoqueRepo, localRepo, movimentacaoRepo,
		estoqueSvc, vendaSvc, cfg.JanelaExclusao())
	relatorioSvc := service.NewRelatorioService(relatorioRepo, produtoRepo, estoqueRepo, movimentacaoRepo,
		vendaRepo, localRepo, cfg.RelatorioTopN, cfg.RelatorioMaxDias)
	dashboardSvc := service.NewDashboardService(produtoRepo, estoqueRepo, movimentacaoRepo, vendaRepo, localRepo,
		relatorioRepo, limites, rdb, cfg.DashboardCacheTTL)
	recuperacaoSvc := service.NewRecuperacaoSenhaService(usuarioRepo, recuperacaoRepo, notificador,
		cfg.FrontendURL, cfg.RecuperacaoTokenExpira)

	return &Servicos{
		Auth:          service.NewAuthService(usuarioRepo, cfg),
		Usuarios:      service.NewUsuarioService(usuarioRepo),
		Recuperacao:   recuperacaoSvc,
		Estoque:       estoqueSvc,
		Produtos:      service.NewProdutoService(produtoRepo, estoqueRepo, localRepo, movimentacaoRepo, estoqueSvc),
		Movimentacoes: movimentacaoSvc,
		Vendas:        vendaSvc,
		Locais:        service.NewLocalService(db, localRepo, estoqueRepo),
		Relatorios:    relatorioSvc,
		Dashboard:     dashboardSvc,
	}
}

// Deps groups what New needs. Redis and SMTP are optional.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Servicos *Servicos
	SMTP     *infra.Disjuntor
}

// New returns a configured Gin engine. ctx bounds background goroutines
// (the in-memory rate limit purger).
func New(ctx context.Context, d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.ErrorHandler(!cfg.IsProduction()))

	var store middleware.LimiteStore
	if d.Redis != nil {
		store = middleware.NewRedisStore(d.Redis)
	} else {
		store = middleware.NewMemoryStore(ctx)
	}
	geral := middleware.RateLimit(store, "geral", cfg.RateLimitGeralMax, cfg.RateLimitGeralJanela)
	authRL := middleware.RateLimit(store, "auth", cfg.RateLimitAuthMax, cfg.RateLimitAuthJanela)
	relatoriosRL := middleware.RateLimit(store, "relatorios", cfg.RateLimitRelatoriosMax, cfg.RateLimitRelatoriosJanela)
	pdfRL := middleware.RateLimit(store, "pdf", cfg.RateLimitPDFMax, cfg.RateLimitPDFJanela)
	recuperacaoRL := middleware.RateLimit(store, "recuperacao", cfg.RateLimitRecuperacaoMax, cfg.RateLimitRecuperacaoJanela)
	dashboardRL := middleware.RateLimit(store, "dashboard", cfg.RateLimitDashboardMax, cfg.RateLimitDashboardJanela)

	s := d.Servicos
	authH := handler.NewAuthHandler(s.Auth)
	usuariosH := handler.NewUsuariosHandler(s.Usuarios)
	recuperacaoH := handler.NewRecuperacaoHandler(s.Recuperacao)
	produtosH := handler.NewProdutosHandler(s.Produtos)
	estoqueH := handler.NewEstoqueHandler(s.Estoque)
	movimentacoesH := handler.NewMovimentacoesHandler(s.Movimentacoes)
	vendasH := handler.NewVendasHandler(s.Vendas)
	relatoriosH := handler.NewRelatoriosHandler(s.Relatorios)
	locaisH := handler.NewLocaisHandler(s.Locais)
	dashboardH := handler.NewDashboardHandler(s.Dashboard)

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.SMTP))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("", geral)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authRL, authH.Login)
		auth.POST("/registro", authRL, authH.Registro)
	}

	rec := api.Group("/recuperacao-senha", recuperacaoRL)
	{
		rec.POST("/solicitar", recuperacaoH.Solicitar)
		rec.GET("/validar/:token", recuperacaoH.Validar)
		rec.POST("/redefinir/:token", recuperacaoH.Redefinir)
	}

	// Protected routes: any authenticated user unless admin is declared
	p := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	admin := middleware.RequireRole(model.RoleAdmin)

	p.GET("/auth/verificar", authH.Verificar)

	prods := p.Group("/produtos")
	{
		prods.GET("", produtosH.Listar)
		prods.POST("", produtosH.Criar)
		prods.GET("/categorias", produtosH.Categorias)
		prods.GET("/:id", produtosH.Obter)
		prods.PUT("/:id", produtosH.Atualizar)
		prods.DELETE("/:id", admin, produtosH.Excluir)
		prods.POST("/:id/zerar-estoque", admin, produtosH.ZerarEstoque)
	}

	est := p.Group("/estoque")
	{
		est.GET("", estoqueH.Listar)
		est.GET("/verificar", estoqueH.Verificar)
		est.GET("/produto/:id", estoqueH.PorProduto)
		est.POST("/transferir", movimentacoesH.Transferir)
		est.POST("/flags/recalcular", admin, estoqueH.RecalcularFlags)
	}

	mov := p.Group("/movimentacoes")
	{
		mov.GET("", movimentacoesH.Listar)
		mov.POST("", movimentacoesH.Registrar)
		mov.DELETE("/produtos-removidos", admin, movimentacoesH.ExcluirDeProdutosRemovidos)
		mov.GET("/:id", movimentacoesH.Obter)
		mov.DELETE("/:id", movimentacoesH.Excluir)
	}

	vend := p.Group("/vendas")
	{
		vend.GET("", vendasH.Listar)
		vend.POST("", vendasH.Registrar)
		vend.GET("/historico", vendasH.Historico)
		vend.DELETE("/produtos-removidos", admin, vendasH.ExcluirDeProdutosRemovidos)
	}

	rel := p.Group("/relatorios", relatoriosRL)
	{
		rel.GET("/resumo", relatoriosH.Resumo)
		rel.GET("/pdf", pdfRL, relatoriosH.PDFResumo)
		rel.GET("/v2/dados", relatoriosH.Dados)
		rel.GET("/v2/pdf", pdfRL, relatoriosH.PDFDados)
	}

	loc := p.Group("/locais")
	{
		loc.GET("", locaisH.Listar)
		loc.GET("/nomes", locaisH.Nomes)
		loc.GET("/tipos", locaisH.Tipos)
		loc.GET("/:id", locaisH.Obter)
		loc.POST("", admin, locaisH.Criar)
		loc.PUT("/:id", admin, locaisH.Atualizar)
		loc.DELETE("/:id", admin, locaisH.Excluir)
	}

	usr := p.Group("/usuarios")
	{
		// A user may change their own password; the service enforces the rest.
		usr.PUT("/:id/senha", usuariosH.AlterarSenha)
		usr.GET("", admin, usuariosH.Listar)
		usr.POST("", admin, usuariosH.Criar)
		usr.GET("/:id", admin, usuariosH.Obter)
		usr.PUT("/:id", admin, usuariosH.Atualizar)
		usr.DELETE("/:id", admin, usuariosH.Excluir)
	}

	dash := p.Group("/dashboard", dashboardRL)
	{
		dash.GET("/metrics", dashboardH.Metricas)
		dash.GET("/products", dashboardH.Produtos)
		dash.GET("/sales", dashboardH.Vendas)
		dash.GET("/top-products", dashboardH.TopProdutos)
		dash.GET("/low-stock", dashboardH.EstoqueBaixo)
		dash.GET("/categories", dashboardH.Categorias)
		dash.GET("/transactions", dashboardH.Transacoes)
	}

	return r
}
