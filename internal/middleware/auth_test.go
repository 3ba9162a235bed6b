package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, usuarioID, role string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"usuario_id": usuarioID, "email": "ana@loja.com", "nome": "Ana", "role": role,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func ginTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(false), JWTAuth(testSecret))
	r.GET("/protegido", func(c *gin.Context) {
		u, err := GetClaims(c).Usuario()
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"usuario_id": u.ID.String(), "role": u.Role})
	})
	r.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func codigo(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierror.Resposta
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Sucesso)
	return body.Codigo
}

// ── Tests: JWT Middleware ─────────────────────────────────────────────────────

func TestProtegido_SemToken(t *testing.T) {
	w := get(ginTestRouter(), "/protegido", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.CodigoTokenAusente, codigo(t, w))
}

func TestProtegido_TokenValido(t *testing.T) {
	id := uuid.New().String()
	w := get(ginTestRouter(), "/protegido", signToken(t, id, model.RoleFuncionario, time.Hour))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, id, body["usuario_id"])
	assert.Equal(t, model.RoleFuncionario, body["role"])
}

func TestProtegido_TokenExpirado(t *testing.T) {
	w := get(ginTestRouter(), "/protegido", signToken(t, uuid.New().String(), model.RoleAdmin, -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.CodigoTokenExpirado, codigo(t, w))
}

func TestProtegido_AssinaturaErrada(t *testing.T) {
	claims := jwt.MapClaims{"usuario_id": uuid.New().String(), "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("outro-segredo"))
	require.NoError(t, err)

	w := get(ginTestRouter(), "/protegido", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.CodigoTokenInvalido, codigo(t, w))
}

func TestProtegido_Lixo(t *testing.T) {
	w := get(ginTestRouter(), "/protegido", "isto.nao.e-um-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.CodigoTokenInvalido, codigo(t, w))
}

// ── Tests: RequireRole ────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	r := ginTestRouter()

	w := get(r, "/admin", signToken(t, uuid.New().String(), model.RoleFuncionario, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierror.CodigoSemPermissao, codigo(t, w))

	w = get(r, "/admin", signToken(t, uuid.New().String(), model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}
