package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/session"
)

const (
	sessionCookie = "sid"
	sessionHeader = "X-Session-ID"
	sessionCtxKey = "session"
)

// sessionMiddleware attaches the caller's session, creating one when needed,
// and signs the session in when a valid bearer token is presented.
func sessionMiddleware(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}

		s, created := deps.Sessions.Resolve(c.Request.Context(), id)
		if created {
			deps.Metrics.SetSessions(deps.Sessions.Len())
		}
		c.Header(sessionHeader, s.ID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, s.ID, 0, "/", "", false, true)

		if token := bearerToken(c); token != "" && token != s.Token() {
			user, err := deps.Auth.LookupByToken(c.Request.Context(), token)
			if err != nil {
				logger.Printf("session: bearer rejected session_id=%s error=%v", s.ID, err)
			} else {
				signIn(c.Request.Context(), deps.Orders, logger, s, user, token)
			}
		}

		c.Set(sessionCtxKey, s)
		c.Next()
	}
}

// signIn puts user into the session and loads their order history.
func signIn(ctx context.Context, orders OrderLister, logger *log.Logger, s *session.Session, user *domain.User, token string) {
	history, err := orders.ListByUser(ctx, user.ID)
	if err != nil {
		logger.Printf("session: load orders user_id=%s error=%v", user.ID, err)
		history = nil
	}
	s.Account.SignIn(*user, history)
	s.SetToken(token)
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
