package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/Aboubacar2012/crsd-platform/internal/app/config"
	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
	"github.com/Aboubacar2012/crsd-platform/internal/app/role"
)

// TokenBlacklist est le sous-ensemble du client Redis utilisé ici.
type TokenBlacklist interface {
	CheckJWTInBlacklist(ctx context.Context, jwtStr string) error
}

type AuthMiddleware struct {
	Blacklist TokenBlacklist
	Config    *config.Config
}

func NewAuthMiddleware(blacklist TokenBlacklist, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Blacklist: blacklist,
		Config:    cfg,
	}
}

// WithAuthCheck vérifie l'authentification PUIS le rôle, dans cet ordre :
// 401 sans session valide, 403 si le rôle ne suffit pas.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		jwtStr := gCtx.GetHeader("Authorization")
		if jwtStr == "" {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		jwtStr = strings.TrimPrefix(jwtStr, "Bearer ")

		// Un token révoqué (déconnexion) vaut absence de session
		if am.Blacklist != nil {
			if err := am.Blacklist.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr); err == nil {
				gCtx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		token, err := am.parseJWTToken(jwtStr)
		if err != nil {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*ds.JWTClaims)
		if !ok || !token.Valid {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		gCtx.Set("userID", claims.UserID)
		gCtx.Set("userRole", claims.Role)

		gCtx.Next()
	})
}

func (am *AuthMiddleware) parseJWTToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.Config.JWT.Secret), nil
	})
}

func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
