package auth

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

const sessionKey = "session"

var ErrNoSession = errors.New("no authenticated session")

// Session is the verified identity of the caller. Handlers receive it
// explicitly from the request context rather than from a global.
type Session struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// ParseTokenDataCtx returns the session RequireSession stored on c.
func ParseTokenDataCtx(c echo.Context) (Session, error) {
	sess, ok := c.Get(sessionKey).(Session)
	if !ok || sess.UserID == "" {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func setSession(c echo.Context, sess Session) {
	c.Set(sessionKey, sess)
}
