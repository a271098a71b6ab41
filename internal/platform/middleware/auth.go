package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "genescreen/internal/jwt_token"
	"genescreen/internal/platform/apikey"
	"genescreen/pkg/requestcontext"
)

// JWTValidator validates bearer tokens and yields the ledger account bound to
// them.
type JWTValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth attaches the authenticated account to the request context.
//
// Two credentials are accepted: a bearer JWT carrying the account claim, or a
// pre-shared API key (X-API-Key plus X-Account) for service callers. With
// neither, the request is rejected before it reaches a handler; downstream
// coordinators still re-check requestcontext.Account themselves.
func RequireAuth(validator JWTValidator, apiKeyHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				claims, err := validator.ValidateToken(after)
				if err != nil {
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
					unauthorized(w, "Invalid or expired token")
					return
				}
				ctx = requestcontext.WithAccount(ctx, claims.Account)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if key := r.Header.Get("X-API-Key"); key != "" && apiKeyHash != "" {
				account := r.Header.Get("X-Account")
				if !apikey.Verify(apiKeyHash, key) || account == "" {
					logger.WarnContext(ctx, "unauthorized access - invalid api key",
						"request_id", GetRequestID(ctx),
					)
					unauthorized(w, "Invalid API key or missing account")
					return
				}
				ctx = requestcontext.WithAccount(ctx, account)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			logger.WarnContext(ctx, "unauthorized access - missing credentials",
				"request_id", GetRequestID(ctx),
			)
			unauthorized(w, "Missing or invalid Authorization header")
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
