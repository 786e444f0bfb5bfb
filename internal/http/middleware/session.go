package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/frontdesk/vms/internal/domain"
	"github.com/frontdesk/vms/internal/http/response"
	"github.com/frontdesk/vms/pkg/auth"
	"github.com/frontdesk/vms/pkg/logger"
)

type ctxKey string

const ctxActor ctxKey = "actor"

// Session resolves the bearer token into an explicit actor identity.
// Everything past this middleware is stateless with respect to "who is
// logged in": handlers read the actor from the context and pass it into
// the services as a plain parameter.
type Session struct {
	secret string
}

func NewSession(secret string) *Session {
	return &Session{secret: secret}
}

func (s *Session) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.Unauthorized(w, "invalid authorization header")
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")
		claims, err := auth.Parse(raw, s.secret)
		if err != nil {
			response.Unauthorized(w, "invalid authorization token")
			return
		}
		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			response.Unauthorized(w, "invalid authorization token")
			return
		}

		actor := domain.Actor{UserID: claims.Sub, Role: role}
		ctx := context.WithValue(r.Context(), ctxActor, actor)
		ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
		ctx = context.WithValue(ctx, logger.RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route to the given roles. It assumes RequireAuth
// ran earlier in the chain.
func (s *Session) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r)
			if !ok || !allowed[actor.Role] {
				response.Forbidden(w, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ActorFrom returns the actor resolved by RequireAuth.
func ActorFrom(r *http.Request) (domain.Actor, bool) {
	v := r.Context().Value(ctxActor)
	if v == nil {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
