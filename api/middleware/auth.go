package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/uniforms-backend/api/responses"
	pkgAuth "github.com/angelmondragon/uniforms-backend/pkg/auth"
	"github.com/angelmondragon/uniforms-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/uniforms-backend/pkg/errors"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = WithEmployeeID(ctx, claims.EmployeeID)

			if logg != nil {
				ctx = logg.WithField(ctx, "user_id", claims.UserID.String())
				if claims.EmployeeID != "" {
					ctx = logg.WithEmployeeID(ctx, claims.EmployeeID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
