package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionKey          = "session_state"
	sessionDestroyedKey = "session_destroyed"
)

type SessionConfig struct {
	Cookie string
	TTL    time.Duration
	Secure bool
}

// Sessions loads the wizard state before the handler runs and persists it
// before the first byte of the response goes out, so a client following a
// redirect always sees the saved state. A request that changes the logged-in
// account is saved under a new id and the old one is deleted.
func Sessions(store session.Store, cfg SessionConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.Cookie)
		st, err := store.Load(c.Request.Context(), id)
		if err != nil {
			log.Error("session load failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"messages": []string{"session storage unavailable, please try again"}})
			return
		}

		setSessionCookie(c.Writer, cfg, st.ID)
		c.Set(sessionKey, st)
		account := accountSSN(st)

		w := &savingWriter{ResponseWriter: c.Writer}
		w.save = func() {
			if c.GetBool(sessionDestroyedKey) {
				return
			}
			ctx := context.WithoutCancel(c.Request.Context())
			if accountSSN(st) != account {
				previous := st.ID
				st.Rotate(session.NewID())
				setSessionCookie(w.ResponseWriter, cfg, st.ID)
				if err := store.Delete(ctx, previous); err != nil {
					log.Warn("session rotation left old id", zap.String("request_id", GetRequestID(c)), zap.Error(err))
				}
			}
			if err := store.Save(ctx, st); err != nil {
				log.Error("session save failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			}
		}
		c.Writer = w

		c.Next()
		w.flush()
	}
}

// setSessionCookie replaces any session cookie already queued on w.
func setSessionCookie(w http.ResponseWriter, cfg SessionConfig, id string) {
	dropSessionCookie(w, cfg)
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Cookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func dropSessionCookie(w http.ResponseWriter, cfg SessionConfig) {
	h := w.Header()
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, cfg.Cookie+"=") {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
}

func accountSSN(st *session.State) string {
	if st.Account == nil {
		return ""
	}
	return st.Account.SSN
}

// destroySession drops the server-side state and expires the cookie.
func destroySession(c *gin.Context, store session.Store, cfg SessionConfig) error {
	st := currentSession(c)
	c.Set(sessionDestroyedKey, true)
	dropSessionCookie(c.Writer, cfg)
	http.SetCookie(c.Writer, &http.Cookie{Name: cfg.Cookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: cfg.Secure})
	return store.Delete(c.Request.Context(), st.ID)
}

// currentSession returns the request's state. Without the Sessions
// middleware it returns a throwaway state.
func currentSession(c *gin.Context) *session.State {
	if v, ok := c.Get(sessionKey); ok {
		if st, ok := v.(*session.State); ok {
			return st
		}
	}
	st := session.New(session.NewID())
	c.Set(sessionKey, st)
	return st
}

type savingWriter struct {
	gin.ResponseWriter
	once sync.Once
	save func()
}

func (w *savingWriter) flush() { w.once.Do(w.save) }

func (w *savingWriter) WriteHeaderNow() {
	w.flush()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *savingWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *savingWriter) WriteString(s string) (int, error) {
	w.flush()
	return w.ResponseWriter.WriteString(s)
}

func (w *savingWriter) Flush() {
	w.flush()
	w.ResponseWriter.Flush()
}
