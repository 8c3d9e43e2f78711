package middleware

import (
	"context"
	"net/http"
	"strings"

	"medibook-server/pkg/jwt"
	"medibook-server/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const (
	SessionIDKey   contextKey = "session_id"
	PhoneNumberKey contextKey = "phone_number"
)

// SessionMiddleware guards the form endpoints that come after phone
// verification: a valid session token must be presented and must belong to
// the session addressed by the URL.
type SessionMiddleware struct {
	tokenService *jwt.SessionTokenService
}

func NewSessionMiddleware(tokenService *jwt.SessionTokenService) *SessionMiddleware {
	return &SessionMiddleware{tokenService: tokenService}
}

func (m *SessionMiddleware) RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.tokenService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// The token is bound to one session; reject use against another.
		if pathID, err := uuid.Parse(mux.Vars(r)["id"]); err != nil || pathID != claims.SessionID {
			response.Forbidden(w, "Token does not match session")
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, claims.SessionID)
		ctx = context.WithValue(ctx, PhoneNumberKey, claims.PhoneNumber)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionIDFromContext extracts the verified session id from context.
func GetSessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	return sessionID, ok
}

// GetPhoneNumberFromContext extracts the verified phone number from context.
func GetPhoneNumberFromContext(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(PhoneNumberKey).(string)
	return phone, ok
}
