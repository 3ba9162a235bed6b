package middleware

import (
	"strings"

	"github.com/RxSaturn/estoque-facil-sub001/internal/apierror"
	"github.com/RxSaturn/estoque-facil-sub001/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UsuarioID string `json:"usuario_id"`
	Email     string `json:"email"`
	Nome      string `json:"nome"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Usuario rebuilds the identity carried by the token.
func (c *JWTClaims) Usuario() (*model.Usuario, error) {
	id, err := uuid.Parse(c.UsuarioID)
	if err != nil {
		return nil, apierror.NaoAutenticado(apierror.CodigoTokenInvalido, "Token inválido")
	}
	return &model.Usuario{ID: id, Nome: c.Nome, Email: c.Email, Role: c.Role}, nil
}

// JWTAuth validates the Bearer token on every protected route. Failures are
// pushed to c.Errors and rendered by ErrorHandler.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			_ = c.Error(apierror.NaoAutenticado(apierror.CodigoTokenAusente, "Autenticação necessária"))
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !token.Valid || claims.UsuarioID == "" {
			_ = c.Error(apierror.NaoAutenticado(apierror.CodigoTokenInvalido, "Token inválido"))
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[claims.Role] {
			_ = c.Error(apierror.Proibido("Permissão insuficiente para esta operação"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
