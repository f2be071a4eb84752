// Package middleware contains HTTP middleware for the workfloor server.
package middleware

import (
	"context"
	"net/http"

	"workfloor/internal/auth"
	"workfloor/internal/core"
	"workfloor/internal/logger"

	"github.com/google/uuid"
)

// actorKey is the context key for the authenticated actor.
type actorKey struct{}

// Actor is middleware that extracts the acting identity and role set by the
// upstream gateway. Token verification happens there; this service only
// requires that both headers are present and the role is known.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
		if err != nil {
			http.Error(w, "missing or invalid actor ID", http.StatusUnauthorized)
			return
		}

		role := auth.Role(r.Header.Get("X-Actor-Role"))
		if !role.Valid() {
			http.Error(w, "missing or unknown actor role", http.StatusUnauthorized)
			return
		}

		actor := core.Actor{ID: id, Role: role}
		ctx := NewContextWithActor(r.Context(), actor)
		ctx = logger.WithActorID(ctx, id.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewContextWithActor returns a context carrying the actor.
func NewContextWithActor(ctx context.Context, actor core.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext extracts the actor from the context.
func ActorFromContext(ctx context.Context) (core.Actor, bool) {
	v, ok := ctx.Value(actorKey{}).(core.Actor)
	return v, ok
}
