// Package auth resolves the current user from the session cookie set by the
// login service. Tokens are only verified here, never issued.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultCookieName = "access_token"
	DefaultLoginPath  = "/auth"
)

var (
	ErrMissingSubject = errors.New("token has no subject")
	ErrMissingUserID  = errors.New("token has no user id")
)

// User is the identity carried by a session token.
type User struct {
	ID       uint
	Username string
}

// Claims is the session token payload: the username in "sub" and the user
// id in "id".
type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

type Config struct {
	SecretKey  []byte
	CookieName string
	LoginPath  string
}

type Authenticator struct {
	cfg    Config
	parser *jwt.Parser
	log    *slog.Logger
}

func NewAuthenticator(cfg Config, log *slog.Logger) (*Authenticator, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("auth: secret key is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	return &Authenticator{
		cfg:    cfg,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		log:    log,
	}, nil
}

// CurrentUser returns the user behind the request's session cookie, or nil
// when there is no cookie. A cookie holding an invalid or expired token
// yields an error.
func (a *Authenticator) CurrentUser(r *http.Request) (*User, error) {
	cookie, err := r.Cookie(a.cfg.CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(strings.TrimPrefix(cookie.Value, "Bearer "))
	if raw == "" {
		return nil, nil
	}

	claims := &Claims{}
	_, err = a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.cfg.SecretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	if claims.UserID == 0 {
		return nil, ErrMissingUserID
	}
	return &User{ID: claims.UserID, Username: claims.Subject}, nil
}

// RequireUser redirects requests without a valid session to the login page
// with 302 Found. Otherwise the user is stored in the request context.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.CurrentUser(r)
		if err != nil {
			a.log.Debug("Rejected session token", "err", err, "path", r.URL.Path)
		}
		if user == nil {
			http.Redirect(w, r, a.cfg.LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

type ctxKey string

const userKey ctxKey = "user"

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by RequireUser.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok && user != nil
}
