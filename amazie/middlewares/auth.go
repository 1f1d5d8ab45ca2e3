package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iamham/amazie/amazie/config"
)

type contextKey string

const ShopperIDKey contextKey = "shopper_id"

// AuthMiddleware validates the anonymous shopper token and puts the
// shopper id on the request context.
func AuthMiddleware(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			parts := strings.Split(auth, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			shopperID, err := ParseShopperToken(cfg, parts[1])
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ShopperIDKey, shopperID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseShopperToken verifies a token and extracts the shopper id. Shared
// with the websocket route, which carries the token in-band.
func ParseShopperToken(cfg config.Config, tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	shopperID, ok := claims["shopper_id"].(string)
	if !ok || shopperID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return shopperID, nil
}
