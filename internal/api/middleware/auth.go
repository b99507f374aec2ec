package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/service"
)

type contextKey string

const (
	OperatorIDKey   contextKey = "operatorID"
	OperatorNameKey contextKey = "operatorName"
)

func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			// ValidateToken also checks the operator audience, so tokens
			// minted for anything else sharing the secret stop here.
			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			operatorIDStr, ok := (*claims)["sub"].(string)
			if !ok {
				log.Printf("ERROR [middleware.Auth] missing 'sub' claim in token")
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			operatorID, err := uuid.Parse(operatorIDStr)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] failed to parse operator ID: %v", err)
				http.Error(w, "Invalid operator ID", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OperatorIDKey, operatorID)
			if name, ok := (*claims)["name"].(string); ok {
				ctx = context.WithValue(ctx, OperatorNameKey, name)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetOperatorID(ctx context.Context) (uuid.UUID, bool) {
	operatorID, ok := ctx.Value(OperatorIDKey).(uuid.UUID)
	return operatorID, ok
}

// GetOperatorName returns the display name carried in the token, used
// to attribute front-desk actions in notifications.
func GetOperatorName(ctx context.Context) string {
	name, _ := ctx.Value(OperatorNameKey).(string)
	return name
}
