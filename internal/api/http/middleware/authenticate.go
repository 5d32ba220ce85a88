package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/logger"
)

// TokenParser resolves user IDs from bearer tokens.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the user ID into the
// request context. OPTIONS preflight requests pass through with no identity
// attached.
type Authenticate struct {
	tokens TokenParser
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		var tokenString string
		header := r.Header.Get("Authorization")
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}

		// Missing or malformed header is a client error.
		if tokenString == "" {
			m.writeError(w, apperror.Forbidden("authentication failed, please try again"))
			return
		}

		userID, err := m.tokens.Parse(tokenString)
		if err != nil {
			// Verification failures are reported as processing errors;
			// the reason never reaches the client.
			m.logger.Error("token verification failed", "error", err.Error())
			m.writeError(w, apperror.Internal("authentication failed, please try again"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

func (m *Authenticate) writeError(w http.ResponseWriter, appErr *apperror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Code)
	if err := json.NewEncoder(w).Encode(appErr); err != nil {
		m.logger.Error("failed to write error response", "error", err.Error())
	}
}
