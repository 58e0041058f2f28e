package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lifedash/questlog/internal/ctxkeys"
	"github.com/lifedash/questlog/internal/service"
)

// APIAuth requires a valid bearer token and puts the token's user into the
// context. Accounts are provisioned on first use.
func APIAuth(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				slog.Debug("rejected bearer token", "error", err, "path", r.URL.Path)
				unauthorized(w)
				return
			}

			userID, err := service.UserID(claims)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := userService.Ensure(userID)
			if err != nil {
				slog.Error("failed to load user", "error", err, "user_id", userID)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="questlog"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}
