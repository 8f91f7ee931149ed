package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sessionEngine(store session.Store, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Sessions(store, testSessions, zap.NewNop()))
	r.GET("/", handler)
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testSessions.Cookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessions_issuesCookieAndSaves(t *testing.T) {
	store := newMemStore()
	r := sessionEngine(store, func(c *gin.Context) {
		currentSession(c).Seat = "1A"
		c.Redirect(http.StatusSeeOther, "/next")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "1A", store.get(t, cookie.Value).Seat)
	assert.Equal(t, 1, store.saves)
}

func TestSessions_reusesExistingState(t *testing.T) {
	store := newMemStore()
	st := session.New(session.NewID())
	st.AddFlash(flashInfo, "saved earlier")
	require.NoError(t, store.Save(context.Background(), st))

	var seen []string
	r := sessionEngine(store, func(c *gin.Context) {
		seen = messages(currentSession(c))
		c.JSON(http.StatusOK, gin.H{})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testSessions.Cookie, Value: st.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, []string{"saved earlier"}, seen)
	assert.Equal(t, st.ID, sessionCookie(t, w).Value)
	assert.Empty(t, store.get(t, st.ID).Flashes)
}

func TestSessions_savesBeforeBody(t *testing.T) {
	store := newMemStore()
	var savedBeforeWrite int
	r := sessionEngine(store, func(c *gin.Context) {
		currentSession(c).Seat = "2B"
		savedBeforeWrite = store.saves
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 0, savedBeforeWrite)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "2B", store.get(t, sessionCookie(t, w).Value).Seat)
}

func TestSessions_loadFailure(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("redis down")
	called := false
	r := sessionEngine(store, func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, called)
}

func TestSessions_destroyedIsNotSaved(t *testing.T) {
	store := newMemStore()
	r := sessionEngine(store, func(c *gin.Context) {
		require.NoError(t, destroySession(c, store, testSessions))
		c.Redirect(http.StatusSeeOther, "/")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 0, store.saves)
	assert.Empty(t, store.data)
}

func TestSessions_rotatesIDWhenAccountChanges(t *testing.T) {
	store := newMemStore()
	st := session.New(session.NewID())
	st.Seat = "1A"
	require.NoError(t, store.Save(context.Background(), st))

	r := sessionEngine(store, func(c *gin.Context) {
		currentSession(c).Account = &session.Account{SSN: "123456789", Email: "ada@example.com"}
		c.Redirect(http.StatusSeeOther, "/mytrips")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testSessions.Cookie, Value: st.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, w.Result().Cookies(), 1)
	rotated := sessionCookie(t, w).Value
	assert.NotEqual(t, st.ID, rotated)
	assert.NotContains(t, store.data, st.ID)

	saved := store.get(t, rotated)
	require.NotNil(t, saved.Account)
	assert.Equal(t, "123456789", saved.Account.SSN)
	assert.Equal(t, "1A", saved.Seat)
	assert.Equal(t, st.ID, saved.Owner(), "seat holds stay with the first id")
}

func TestSessions_keepsIDForSameAccount(t *testing.T) {
	store := newMemStore()
	st := session.New(session.NewID())
	st.Account = &session.Account{SSN: "123456789"}
	require.NoError(t, store.Save(context.Background(), st))

	r := sessionEngine(store, func(c *gin.Context) {
		currentSession(c).Seat = "4D"
		c.JSON(http.StatusOK, gin.H{})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testSessions.Cookie, Value: st.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, st.ID, sessionCookie(t, w).Value)
	assert.Equal(t, "4D", store.get(t, st.ID).Seat)
}
