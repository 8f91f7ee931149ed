package api

import (
	"net/http"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/auth"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service  auth.AuthUseCase
	store    session.Store
	sessions SessionConfig
	log      *zap.Logger
}

func NewAuthHandler(service auth.AuthUseCase, store session.Store, sessions SessionConfig, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{service: service, store: store, sessions: sessions, log: log}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)
	router.GET("/logout", h.logout)
}

func (h *AuthHandler) loginForm(c *gin.Context) {
	st := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"account": accountViewOf(st.Account), "messages": messages(st)})
}

func (h *AuthHandler) login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		failForm(c, badRequest(err), "/login")
		return
	}

	p, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		failForm(c, err, "/login")
		return
	}

	currentSession(c).Account = accountOf(p)
	redirectWithFlash(c, "welcome back, "+p.FirstName, "/mytrips")
}

func (h *AuthHandler) registerForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": messages(currentSession(c))})
}

func (h *AuthHandler) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		failForm(c, badRequest(err), "/register")
		return
	}

	if _, err := h.service.Register(c.Request.Context(), in); err != nil {
		failForm(c, err, "/register")
		return
	}
	redirectWithFlash(c, "registered, please log in", "/login")
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := destroySession(c, h.store, h.sessions); err != nil {
		h.log.Warn("session delete failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func accountOf(p *domain.Passenger) *session.Account {
	return &session.Account{SSN: p.SSN, Email: p.Email, Name: p.FullName()}
}
