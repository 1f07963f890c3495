package httpadapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

// UserHeader carries the user id when header trust is enabled (local mode).
const UserHeader = "X-User-ID"

// Authenticator resolves the caller's identity from request credentials.
type Authenticator interface {
	Authenticate(r *http.Request) (domain.UserID, error)
}

// TokenAuthenticator maps opaque bearer tokens to user ids.
type TokenAuthenticator struct {
	tokens      map[string]domain.UserID
	trustHeader bool
}

func NewTokenAuthenticator(tokens map[string]string, trustHeader bool) *TokenAuthenticator {
	table := make(map[string]domain.UserID, len(tokens))
	for tok, user := range tokens {
		table[tok] = domain.UserID(user)
	}
	return &TokenAuthenticator{tokens: table, trustHeader: trustHeader}
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) (domain.UserID, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return "", domain.ErrUnauthenticated
		}
		if user, ok := a.tokens[strings.TrimSpace(token)]; ok {
			return user, nil
		}
		return "", domain.ErrUnauthenticated
	}

	if a.trustHeader {
		if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
			return domain.UserID(user), nil
		}
	}

	return "", domain.ErrUnauthenticated
}

type userIDKey struct{}

func withUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext returns the identity set by the auth middleware.
func UserIDFromContext(ctx context.Context) domain.UserID {
	id, _ := ctx.Value(userIDKey{}).(domain.UserID)
	return id
}
