package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipebook/internal/config"
	"recipebook/pkg/domain"
	"recipebook/pkg/logger"
	"recipebook/pkg/serrors"
)

// CtxKey is the type of the context keys set by this package.
type CtxKey string

// UserIDKey holds the domain.UserID of an authenticated caller.
const UserIDKey CtxKey = "UserID"

// SecHandlerOptions configures bearer token verification.
type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key tokens are verified with.
	PublicKey string
}

// NewSecHandlerOptions reads the verification key from cfg.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler verifies RS256 signed bearer tokens whose subject is a user id.
type SecHandler struct {
	key *rsa.PublicKey
}

// NewSecHandler parses the PEM encoded public key of opts.
func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &SecHandler{key: key}, nil
}

// HandleBearerAuth validates token and returns ctx carrying the caller's id.
func (s SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	ctx = context.WithValue(ctx, UserIDKey, domain.UserID(userID))
	ctx = logger.WithFields(ctx, zap.String(string(UserIDKey), userID.String()))

	return ctx, nil
}

// GetUserIDFromContext returns the authenticated caller, or the zero id.
func GetUserIDFromContext(ctx context.Context) domain.UserID {
	id, _ := ctx.Value(UserIDKey).(domain.UserID)

	return id
}

// actor names the caller of a mutation in logs.
func actor(ctx context.Context) zap.Field {
	id := GetUserIDFromContext(ctx)
	if id == (domain.UserID{}) {
		return zap.String("actor", "anonymous")
	}

	return zap.Stringer("actor", id)
}

// Authenticate returns a middleware rejecting requests without a valid
// "Authorization: Bearer <token>" header.
func (h Handler) Authenticate(sec *SecHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				h.writeError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

				return
			}

			ctx, err := sec.HandleBearerAuth(r.Context(), token)
			if err != nil {
				h.writeError(w, r, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
