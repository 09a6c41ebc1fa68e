package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
)

// exemptPaths are routes that bypass actor resolution (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// APIKey binds a bearer token to an account.
type APIKey struct {
	Key      string
	Role     actor.Role
	ActorID  string
	Approval actor.Approval
}

type actorKey struct{}

// ContextWithActor stores the resolved actor in ctx.
func ContextWithActor(ctx context.Context, a actor.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the resolved actor, or the public actor when none
// was stored.
func ActorFromContext(ctx context.Context) actor.Actor {
	if a, ok := ctx.Value(actorKey{}).(actor.Actor); ok {
		return a
	}
	return actor.PublicActor()
}

// ActorMiddleware resolves the requesting actor from a Bearer API key.
// Requests without an Authorization header are served as the public actor.
// Accounts that are not approved are downgraded to public.
func ActorMiddleware(keys []APIKey) func(http.Handler) http.Handler {
	accounts := make(map[string]actor.Actor, len(keys))
	for _, k := range keys {
		if k.Key == "" {
			continue
		}
		a, err := actor.Resolve(k.Role, k.ActorID, k.Approval)
		if err != nil {
			continue
		}
		accounts[k.Key] = a
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor.PublicActor())))
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorResponseCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			a, ok := accounts[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), a)))
		})
	}
}
