package session

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/finvoice/finvoice/pkg/profile"
	log "github.com/sirupsen/logrus"
)

type Kind string

const (
	Unauthenticated Kind = "unauthenticated"
	// Remote sessions are backed by a resolvable remote profile; writes go
	// to the remote store.
	Remote Kind = "remote"
	// LocalOnly sessions were never resolved against the remote store;
	// their writes stay in the local cache.
	LocalOnly Kind = "localOnly"
)

// LocalIdentityPrefix is the reserved namespace for identities minted
// without a remote profile.
const LocalIdentityPrefix = "local_"

// IsLocalIdentity is the single predicate deciding whether an identity
// belongs to the local-only namespace. All write gating routes through the
// session kind derived from it; do not reimplement the prefix check at call
// sites.
func IsLocalIdentity(identity string) bool {
	return strings.HasPrefix(identity, LocalIdentityPrefix)
}

// NewLocalIdentity mints a fresh local-only identity from the given instant.
func NewLocalIdentity(now time.Time) string {
	return LocalIdentityPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// KindOfIdentity derives the session kind for a bare identity string.
func KindOfIdentity(identity string) Kind {
	switch {
	case identity == "":
		return Unauthenticated
	case IsLocalIdentity(identity):
		return LocalOnly
	default:
		return Remote
	}
}

// Session is the authenticated state a request operates under. Exactly one
// is active per process; request handling receives it through the context.
type Session struct {
	Kind     Kind
	Identity string
	Profile  profile.Profile
}

// CanUseRemote reports whether operations under this session may call the
// remote store.
func (s Session) CanUseRemote() bool {
	return s.Kind == Remote
}

type contextKey string

const sessionKey contextKey = "session"

// FromContext retrieves the session attached to the context. An absent
// session is reported as an Unauthenticated one.
func FromContext(ctx context.Context) Session {
	s, ok := ctx.Value(sessionKey).(Session)
	if !ok {
		log.Trace("no session in context")
		return Session{Kind: Unauthenticated}
	}
	return s
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// RequireRemote returns the context's session when it may write to the
// remote store, or the typed gating error otherwise.
func RequireRemote(ctx context.Context) (Session, error) {
	s := FromContext(ctx)
	switch s.Kind {
	case Remote:
		return s, nil
	case LocalOnly:
		return Session{}, ErrRemoteUnavailableOfflineMode
	default:
		return Session{}, ErrNotAuthenticated
	}
}

// RequireAny returns the context's session as long as it is authenticated,
// remote or local-only.
func RequireAny(ctx context.Context) (Session, error) {
	s := FromContext(ctx)
	if s.Kind == Unauthenticated {
		return Session{}, ErrNotAuthenticated
	}
	return s, nil
}
