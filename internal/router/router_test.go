package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
	"github.com/RxSaturn/estoque-facil-sub001/internal/dto"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
	"github.com/RxSaturn/estoque-facil-sub001/internal/testutil"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

type notificadorNulo struct{}

func (notificadorNulo) EnviarRecuperacaoSenha(context.Context, string, string, string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                        "test",
		FrontendURL:                "http://localhost:3000",
		JWTSecret:                  "test-secret-key",
		JWTExpirationHours:         8,
		EstoqueLimiteCritico:       10,
		EstoqueLimiteBaixo:         20,
		JanelaExclusaoDias:         30,
		RelatorioTopN:              10,
		RelatorioMaxDias:           366,
		RecuperacaoTokenExpira:     time.Hour,
		RateLimitGeralMax:          1000,
		RateLimitGeralJanela:       time.Minute,
		RateLimitAuthMax:           1000,
		RateLimitAuthJanela:        time.Minute,
		RateLimitRelatoriosMax:     1000,
		RateLimitRelatoriosJanela:  time.Minute,
		RateLimitPDFMax:            1000,
		RateLimitPDFJanela:         time.Minute,
		RateLimitRecuperacaoMax:    1000,
		RateLimitRecuperacaoJanela: time.Minute,
		RateLimitDashboardMax:      1000,
		RateLimitDashboardJanela:   time.Minute,
	}
}

type testEnv struct {
	engine *gin.Engine
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := testConfig()
	db := testutil.NewTestDB(t)
	svcs := NovosServicos(cfg, db, nil, notificadorNulo{})
	_, err := svcs.Usuarios.Criar(ctx, dto.CriarUsuarioRequest{
		Nome: "Admin", Email: "admin@loja.com", Senha: "admin123", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	env := &testEnv{engine: New(ctx, Deps{Config: cfg, DB: db, Servicos: svcs})}
	var login struct {
		Token string `json:"token"`
	}
	w := env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "admin@loja.com", "senha": "admin123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &login)
	env.token = login.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

type envelope struct {
	Sucesso  bool              `json:"sucesso"`
	Mensagem string            `json:"mensagem"`
	Codigo   string            `json:"codigo"`
	Campos   map[string]string `json:"campos"`
}

func (e *testEnv) criarLocal(t *testing.T, nome string) string {
	t.Helper()
	var resp struct {
		Local dto.LocalResponse `json:"local"`
	}
	w := e.do(t, http.MethodPost, "/locais", gin.H{"nome": nome}, e.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &resp)
	return resp.Local.ID
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.Equal(t, true, body["ok"])
}

func TestFluxoDeEstoque(t *testing.T) {
	env := setupTestEnv(t)
	deposito := env.criarLocal(t, "Depósito A")
	loja := env.criarLocal(t, "Loja")

	var criado struct {
		envelope
		Produto dto.ProdutoResponse `json:"produto"`
	}
	w := env.do(t, http.MethodPost, "/produtos", gin.H{
		"nome": "Camiseta Básica Azul", "tipo": "Roupa", "categoria": "Camiseta",
		"subcategoria": "Manga Curta", "localId": deposito, "quantidadeInicial": 50,
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &criado)
	assert.True(t, criado.Sucesso)
	id := criado.Produto.ID
	assert.Equal(t, "RCMCBA01", id)

	w = env.do(t, http.MethodPost, "/estoque/transferir", gin.H{
		"produtoId": id, "quantidade": 20, "localOrigemId": deposito, "localDestinoId": loja,
	}, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/vendas", gin.H{"produtoId": id, "quantidade": 15, "localId": loja}, env.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var obtido struct {
		Produto dto.ProdutoResponse `json:"produto"`
	}
	w = env.do(t, http.MethodGet, "/produtos/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &obtido)
	assert.Equal(t, int64(35), obtido.Produto.QuantidadeTotal)
	assert.True(t, obtido.Produto.TemEstoqueCritico)

	var verif struct {
		Disponivel      bool `json:"disponivel"`
		QuantidadeAtual int  `json:"quantidadeAtual"`
	}
	w = env.do(t, http.MethodGet, "/estoque/verificar?produtoId="+id+"&localId="+loja+"&quantidade=6", nil, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &verif)
	assert.False(t, verif.Disponivel)
	assert.Equal(t, 5, verif.QuantidadeAtual)

	var falha envelope
	w = env.do(t, http.MethodPost, "/vendas", gin.H{"produtoId": id, "quantidade": 6, "localId": loja}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &falha)
	assert.False(t, falha.Sucesso)
	assert.Equal(t, "ESTOQUE_INSUFICIENTE", falha.Codigo)

	var movs struct {
		Movimentacoes []dto.MovimentacaoResponse `json:"movimentacoes"`
		Paginacao     dto.PaginacaoResponse      `json:"paginacao"`
	}
	w = env.do(t, http.MethodGet, "/movimentacoes?produtoId="+id, nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &movs)
	assert.Equal(t, int64(3), movs.Paginacao.Total)

	w = env.do(t, http.MethodGet, "/relatorios/pdf", nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestValidacao(t *testing.T) {
	env := setupTestEnv(t)

	var resp envelope
	w := env.do(t, http.MethodPost, "/produtos", gin.H{"nome": "X", "quantidadeInicial": -1}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "VALIDACAO", resp.Codigo)
	assert.Contains(t, resp.Campos, "nome")
	assert.Contains(t, resp.Campos, "localId")

	req := httptest.NewRequest(http.MethodPost, "/vendas", bytes.NewBufferString("{nao json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	w = httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/movimentacoes/nao-e-uuid", nil, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "ID_INVALIDO", resp.Codigo)
}

func TestAutorizacao(t *testing.T) {
	env := setupTestEnv(t)
	deposito := env.criarLocal(t, "Depósito A")

	w := env.do(t, http.MethodGet, "/produtos", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var reg struct {
		Token   string              `json:"token"`
		Usuario dto.UsuarioResponse `json:"usuario"`
	}
	w = env.do(t, http.MethodPost, "/auth/registro", gin.H{"nome": "Bia", "email": "bia@loja.com", "senha": "segredo1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &reg)
	assert.Equal(t, model.RoleFuncionario, reg.Usuario.Role)

	w = env.do(t, http.MethodPost, "/locais", gin.H{"nome": "Vitrine"}, reg.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/usuarios", nil, reg.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Employees may register stock and list it.
	w = env.do(t, http.MethodPost, "/produtos", gin.H{
		"nome": "Boné Preto", "tipo": "Acessório", "categoria": "Boné",
		"subcategoria": "Aba Reta", "localId": deposito, "quantidadeInicial": 2,
	}, reg.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var criado struct {
		Produto dto.ProdutoResponse `json:"produto"`
	}
	decode(t, w, &criado)
	w = env.do(t, http.MethodDelete, "/produtos/"+criado.Produto.ID, nil, reg.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/auth/verificar", nil, reg.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecuperacaoRespostaGenerica(t *testing.T) {
	env := setupTestEnv(t)

	var a, b envelope
	w := env.do(t, http.MethodPost, "/recuperacao-senha/solicitar", gin.H{"email": "admin@loja.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &a)
	w = env.do(t, http.MethodPost, "/recuperacao-senha/solicitar", gin.H{"email": "ninguem@loja.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &b)
	assert.Equal(t, a, b)

	var v struct {
		Valido bool `json:"valido"`
	}
	w = env.do(t, http.MethodGet, "/recuperacao-senha/validar/abc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &v)
	assert.False(t, v.Valido)
}

func TestSwaggerSoForaDeProducao(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodGet, "/swagger/index.html", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	cfg := testConfig()
	cfg.Env = "production"
	db := testutil.NewTestDB(t)
	prod := &testEnv{engine: New(t.Context(), Deps{Config: cfg, DB: db, Servicos: NovosServicos(cfg, db, nil, notificadorNulo{})})}
	w = prod.do(t, http.MethodGet, "/swagger/index.html", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	gin.SetMode(gin.TestMode)
}

func TestRateLimitPorClasse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.RateLimitAuthMax = 2
	db := testutil.NewTestDB(t)
	env := &testEnv{engine: New(ctx, Deps{Config: cfg, DB: db, Servicos: NovosServicos(cfg, db, nil, notificadorNulo{})})}

	corpo := gin.H{"email": "x@loja.com", "senha": "errada"}
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/auth/login", corpo, "").Code)
	}
	w := env.do(t, http.MethodPost, "/auth/login", corpo, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Other classes keep their own budget.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/recuperacao-senha/validar/abc", nil, "").Code)
}
