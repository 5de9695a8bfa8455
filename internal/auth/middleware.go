package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

const (
	// CookieName is the cookie that carries the session token for browser clients.
	CookieName = "session"

	tokenContextKey   = "token"
	userContextKey    = "currentUser"
	sessionContextKey = "sessionID"
)

// UserLookup resolves the user behind a session.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// Middleware authenticates requests against session tokens.
type Middleware struct {
	tokens   *TokenService
	sessions SessionStore
	users    UserLookup
}

// NewMiddleware builds the session middleware set.
func NewMiddleware(tokens *TokenService, sessions SessionStore, users UserLookup) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions, users: users}
}

// RequireSession rejects requests without a live session with 401 and stores the
// session's user in the context.
func (m *Middleware) RequireSession() echo.MiddlewareFunc {
	return m.chain(false)
}

// OptionalSession loads the session's user when a valid token is present and lets
// anonymous requests through.
func (m *Middleware) OptionalSession() echo.MiddlewareFunc {
	return m.chain(true)
}

func (m *Middleware) chain(optional bool) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(m.jwtConfig(optional))
	load := m.loadSession(optional)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(load(next))
	}
}

func (m *Middleware) jwtConfig(optional bool) echojwt.Config {
	return echojwt.Config{
		SigningKey:    m.tokens.Secret(),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenContextKey,
		TokenLookup:   "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + CookieName,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			return apperrors.ToEchoError(apperrors.ErrUnauthorized)
		},
		ContinueOnIgnoredError: optional,
	}
}

func (m *Middleware) loadSession(optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, sessionID, err := m.resolve(c)
			if err != nil {
				return apperrors.ToEchoError(err)
			}
			if user == nil {
				if optional {
					return next(c)
				}
				return apperrors.ToEchoError(apperrors.ErrUnauthorized)
			}
			c.Set(userContextKey, user)
			c.Set(sessionContextKey, sessionID)
			return next(c)
		}
	}
}

func (m *Middleware) resolve(c echo.Context) (*model.User, string, error) {
	token, ok := c.Get(tokenContextKey).(*jwt.Token)
	if !ok {
		return nil, "", nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ID == "" {
		return nil, "", nil
	}

	ctx := c.Request().Context()
	session, err := m.sessions.Get(ctx, claims.ID)
	if err != nil || session == nil {
		return nil, "", err
	}
	user, err := m.users.GetUser(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, "", err
	}
	return user, session.ID, nil
}

// RequireRole allows the request only when the current user has one of roles.
// It must run after RequireSession.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperrors.ToEchoError(apperrors.ErrUnauthorized)
			}
			if !user.Role.In(roles...) {
				return apperrors.ToEchoError(apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// SessionID returns the id of the session that authenticated the request.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionContextKey).(string)
	return id
}
