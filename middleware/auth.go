package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"SafeEduBackend/models"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	tokenIDKey   contextKey = "tokenID"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims is the session token payload.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens and keeps the set of
// tokens revoked by logout until they would have expired anyway.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

func (ti *TokenIssuer) GenerateToken(user *models.User) (string, time.Time, error) {
	now := ti.now()
	expiresAt := now.Add(ti.ttl)
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the signature, expiry and revocation state.
func (ti *TokenIssuer) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	if ti.isRevoked(claims.ID) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke denies a token id until expiresAt.
func (ti *TokenIssuer) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.pruneLocked()
	ti.revoked[tokenID] = expiresAt
}

func (ti *TokenIssuer) isRevoked(tokenID string) bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	exp, ok := ti.revoked[tokenID]
	return ok && ti.now().Before(exp)
}

func (ti *TokenIssuer) pruneLocked() {
	now := ti.now()
	for id, exp := range ti.revoked {
		if !now.Before(exp) {
			delete(ti.revoked, id)
		}
	}
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// principal in the request context.
func (ti *TokenIssuer) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := ti.ParseToken(bearerToken[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		principal := models.Principal{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		ctx = context.WithValue(ctx, tokenIDKey, tokenRef{id: claims.ID, expiresAt: claims.ExpiresAt.Time})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type tokenRef struct {
	id        string
	expiresAt time.Time
}

// RevokeFromContext revokes the token that authenticated the request.
func (ti *TokenIssuer) RevokeFromContext(ctx context.Context) bool {
	ref, ok := ctx.Value(tokenIDKey).(tokenRef)
	if !ok {
		return false
	}
	ti.Revoke(ref.id, ref.expiresAt)
	return true
}

// RequireRole allows the request through only when the principal holds one
// of the given roles.
func RequireRole(roles ...models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

// SelfOrAdmin guards routes carrying a {userId} variable: callers may only
// reach their own records unless they are admins.
func SelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if p.IsAdmin() || mux.Vars(r)["userId"] == p.ID {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusForbidden, "Access to another user's records is not allowed")
	})
}

func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying p; used by tests and internal callers.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
