package middlewares

import (
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"linkmark/internal/apperrors"
	"linkmark/internal/utils"
)

// tokenFromRequest accepts the jwt cookie set by the OAuth callback, or an
// Authorization bearer header for non-browser clients.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("jwt"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwtKey := []byte(os.Getenv("JWT_SECRET"))
		if len(jwtKey) == 0 {
			log.Error().Msg("JWT_SECRET is not set in environment. Authentication will fail.")
			utils.SendJSONError(w, "Server configuration error", http.StatusInternalServerError)
			return
		}

		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			utils.SendJSONError(w, apperrors.ErrUnauthenticated.Error(), http.StatusUnauthorized)
			return
		}

		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			utils.SendJSONError(w, apperrors.ErrUnauthenticated.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), claims.ID)))
	})
}
