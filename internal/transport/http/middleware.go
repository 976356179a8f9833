package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/metrics"
)

// The caller is authenticated upstream; these headers carry the resolved
// identity into the engine.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

type actorContextKey struct{}

// requireActor resolves the actor headers and stores the actor in the
// request context. Requests without a usable identity are rejected before
// they reach a handler.
func requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(headerActorID))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed actor identity")
			return
		}
		role := domain.Role(r.Header.Get(headerActorRole))
		if !role.Valid() {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or unknown actor role")
			return
		}

		actor := domain.Actor{ID: id, Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorContextKey{}, actor)))
	})
}

func actorFromContext(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor
}

// observe logs every request and feeds the collector, keyed by the chi route
// pattern so path parameters do not explode the label space.
func observe(logger *slog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)

			if collector != nil {
				collector.RecordRequest(route, r.Method, ww.Status(), elapsed)
			}
			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", ww.Status()),
				slog.Duration("elapsed", elapsed),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
