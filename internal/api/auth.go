package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/logger"
)

// Claims is the JWT payload accepted by the API.
type Claims struct {
	Username string `json:"username,omitempty"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Authorizer checks that writes come from a staff account. Reads are open.
type Authorizer struct {
	secret         []byte
	allowAnonymous bool
}

// NewAuthorizer returns an Authorizer signing and verifying HS256 tokens with
// secret. allowAnonymous disables the staff check on writes.
func NewAuthorizer(secret string, allowAnonymous bool) *Authorizer {
	return &Authorizer{secret: []byte(secret), allowAnonymous: allowAnonymous}
}

// IssueToken signs a token for subject that expires after ttl.
func (a *Authorizer) IssueToken(subject string, staff bool, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("auth: no signing secret configured")
	}
	now := time.Now()
	claims := Claims{
		Username: subject,
		IsStaff:  staff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ParseToken validates a signed token and returns its claims.
func (a *Authorizer) ParseToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// authorize returns a PermissionError unless r may write.
func (a *Authorizer) authorize(r *http.Request) error {
	if a == nil {
		return &domain.PermissionError{Action: r.Method}
	}
	if a.allowAnonymous {
		return nil
	}
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" || len(a.secret) == 0 {
		return &domain.PermissionError{Action: r.Method}
	}
	claims, err := a.ParseToken(strings.TrimSpace(raw))
	if err != nil {
		logger.WithCtx(r.Context()).Debug("rejected token", "error", err)
		return &domain.PermissionError{Action: r.Method}
	}
	if !claims.IsStaff {
		return &domain.PermissionError{Action: r.Method}
	}
	return nil
}

// RequireStaff lets safe methods through and answers 403 to writes without a
// valid staff token.
func (a *Authorizer) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if err := a.authorize(r); err != nil {
			respondWithStoreError(w, r, "authorize", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
