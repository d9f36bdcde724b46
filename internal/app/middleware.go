package app

import (
	"net/http"
	"strings"

	"github.com/finvoice/finvoice/internal/config"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resolve the bearer credential into a session on the context. Requests
	// without a credential proceed unauthenticated; the services gate.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			token := bearerToken(req.Header.Get("Authorization"))
			if token != "" {
				verification, err := deps.CredentialVerifier.VerifyCredential(ctx, token)
				if err != nil {
					log.Errorf("credential verification failed: %v", err)
					http.Error(w, "credential verification failed", http.StatusUnauthorized)
					return
				}
				if !verification.Success {
					log.Debugf("credential rejected: %s", verification.Error)
					http.Error(w, "invalid credential", http.StatusUnauthorized)
					return
				}

				identity := verification.Identity
				current := deps.SessionManager.Current()
				if current.Identity == identity {
					// Reuse the managed session so cached profile
					// attributes travel with the request. Stale attributes
					// are refreshed when the cold-start window elapsed.
					deps.SessionManager.RefreshIfStale(ctx)
					ctx = session.WithSession(ctx, deps.SessionManager.Current())
				} else {
					ctx = session.WithSession(ctx, session.Session{
						Kind:     session.KindOfIdentity(identity),
						Identity: identity,
					})
				}
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

func bearerToken(header string) string {
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(header)
}
