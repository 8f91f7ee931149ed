package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/auth"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRouter(fl *MockFlightUseCase, store *memStore) http.Handler {
	return NewRouter(Deps{
		Flights:        fl,
		Wizard:         &MockWizardUseCase{},
		Bookings:       &MockBookingUseCase{},
		Reports:        &MockReportUseCase{},
		Auth:           &MockAuthUseCase{},
		Store:          store,
		Sessions:       testSessions,
		AllowedOrigins: []string{"http://localhost:3000"},
		RatePerSecond:  100,
		RateBurst:      100,
	})
}

func TestRouter_health(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(&MockFlightUseCase{}, newMemStore()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// A search followed by the redirect must show the stored results.
func TestRouter_searchThenResults(t *testing.T) {
	fl := &MockFlightUseCase{}
	store := newMemStore()
	fl.On("Search", mock.Anything, flights.SearchQuery{From: "Oslo"}).
		Return(&flights.SearchResult{Flights: []domain.Flight{sampleFlight("SK1")}}, nil).Once()
	router := testRouter(fl, store)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"from": {"Oslo"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(t, w)

	req = httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	search := decode(t, w)["search"].(map[string]any)
	assert.Len(t, search["flights"], 1)
}

func TestRouter_cors(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	testRouter(&MockFlightUseCase{}, newMemStore()).ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

// Logging in must not keep a session id the client chose before.
func TestRouter_loginIssuesFreshSession(t *testing.T) {
	store := newMemStore()
	planted := session.New(session.NewID())
	require.NoError(t, store.Save(context.Background(), planted))

	authService := &MockAuthUseCase{}
	authService.On("Login", mock.Anything, auth.LoginInput{Email: "ada@example.com", SSN: "123456789"}).
		Return(&domain.Passenger{SSN: "123456789", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}, nil).Once()
	router := NewRouter(Deps{
		Flights:       &MockFlightUseCase{},
		Wizard:        &MockWizardUseCase{},
		Bookings:      &MockBookingUseCase{},
		Reports:       &MockReportUseCase{},
		Auth:          authService,
		Store:         store,
		Sessions:      testSessions,
		RatePerSecond: 100,
		RateBurst:     100,
	})

	form := url.Values{"email": {"ada@example.com"}, "ssn": {"123456789"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: testSessions.Cookie, Value: planted.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	fresh := sessionCookie(t, w).Value
	assert.NotEqual(t, planted.ID, fresh)
	assert.NotContains(t, store.data, planted.ID)
	require.NotNil(t, store.get(t, fresh).Account)
	authService.AssertExpectations(t)
}
