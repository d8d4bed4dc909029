package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"`
}

type sessionResponse struct {
	SessionID string       `json:"sessionId"`
	User      *domain.User `json:"user"`
	CartCount int          `json:"cartCount"`
}

// sessionView feeds the header: who is signed in and the cart badge.
func (h *handlers) sessionView(c *gin.Context) {
	s := currentSession(c)
	var user *domain.User
	if u, ok := s.Account.User(); ok {
		user = &u
	}
	c.JSON(http.StatusOK, sessionResponse{
		SessionID: s.ID,
		User:      user,
		CartCount: s.Cart.ItemCount(),
	})
}

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "email and password are required")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.deps.Auth.Signup(ctx, authsvc.SignupInput{Email: req.Email, Password: req.Password, Name: req.Name}); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			abortWithError(c, http.StatusConflict, "email already registered")
			return
		}
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.startSession(c, http.StatusCreated, req.Email, req.Password)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "email and password are required")
		return
	}
	h.startSession(c, http.StatusOK, req.Email, req.Password)
}

func (h *handlers) startSession(c *gin.Context, status int, email, password string) {
	ctx := c.Request.Context()
	user, token, err := h.deps.Auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			abortWithError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Printf("http: login error=%v", err)
		abortWithError(c, http.StatusInternalServerError, "login failed")
		return
	}
	signIn(ctx, h.deps.Orders, h.logger, currentSession(c), user, token)
	c.JSON(status, authResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   h.deps.Auth.AccessTTLSeconds(),
	})
}

// logout revokes the session's token and signs the user out. The cart stays.
func (h *handlers) logout(c *gin.Context) {
	s := currentSession(c)
	token := s.Token()
	if token == "" {
		token = bearerToken(c)
	}
	if err := h.deps.Auth.Logout(c.Request.Context(), token); err != nil {
		h.logger.Printf("http: logout session_id=%s error=%v", s.ID, err)
	}
	s.SetToken("")
	s.Account.Logout()
	c.Status(http.StatusNoContent)
}
