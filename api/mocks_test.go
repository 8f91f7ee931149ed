package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/auth"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/service/wizard"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, q flights.SearchQuery) (*flights.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.SearchResult), args.Error(1)
}

func (m *MockFlightUseCase) GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error) {
	args := m.Called(ctx, flightNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockWizardUseCase struct {
	mock.Mock
}

func (m *MockWizardUseCase) SelectFlight(ctx context.Context, st *session.State, flightNo string) error {
	return m.Called(ctx, st, flightNo).Error(0)
}

func (m *MockWizardUseCase) PassengerForm(st *session.State) (*session.FlightSnapshot, *session.PassengerForm, error) {
	args := m.Called(st)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*session.FlightSnapshot), args.Get(1).(*session.PassengerForm), args.Error(2)
}

func (m *MockWizardUseCase) EnterPassenger(ctx context.Context, st *session.State, form session.PassengerForm) error {
	return m.Called(ctx, st, form).Error(0)
}

func (m *MockWizardUseCase) SeatMap(ctx context.Context, st *session.State) (*wizard.SeatMap, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.SeatMap), args.Error(1)
}

func (m *MockWizardUseCase) SelectSeat(ctx context.Context, st *session.State, seat, fareClass string) error {
	return m.Called(ctx, st, seat, fareClass).Error(0)
}

func (m *MockWizardUseCase) Summary(st *session.State) (*wizard.Summary, error) {
	args := m.Called(st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Summary), args.Error(1)
}

func (m *MockWizardUseCase) Confirm(ctx context.Context, st *session.State) (*domain.Confirmation, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockWizardUseCase) Reset(ctx context.Context, st *session.State) {
	m.Called(ctx, st)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Confirm(ctx context.Context, input booking.ConfirmInput) (*domain.Confirmation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockBookingUseCase) Update(ctx context.Context, key domain.BookingKey, patch domain.BookingPatch, email string) error {
	return m.Called(ctx, key, patch, email).Error(0)
}

func (m *MockBookingUseCase) Delete(ctx context.Context, key domain.BookingKey, email string) (bool, error) {
	args := m.Called(ctx, key, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingUseCase) ListByPassenger(ctx context.Context, ssn string) ([]domain.Trip, error) {
	args := m.Called(ctx, ssn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockBookingUseCase) OccupiedSeats(ctx context.Context, flightNo string) ([]string, error) {
	args := m.Called(ctx, flightNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockReportUseCase struct {
	mock.Mock
}

func (m *MockReportUseCase) Reports(ctx context.Context) (*domain.Reports, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reports), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, in auth.LoginInput) (*domain.Passenger, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockAuthUseCase) Register(ctx context.Context, in auth.RegisterInput) (*domain.Passenger, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

// memStore keeps states JSON-encoded, like the Redis store does.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Load(_ context.Context, id string) (*session.State, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[id]
	if !ok {
		return session.New(session.NewID()), nil
	}
	st := session.New(id)
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *memStore) Save(_ context.Context, st *session.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[st.ID] = raw
	s.saves++
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *memStore) get(t *testing.T, id string) *session.State {
	t.Helper()
	st, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	return st
}

type registrar interface {
	Register(router *gin.RouterGroup)
}

// serve runs one request through h with st installed as the session.
func serve(h registrar, st *session.State, method, target string, form url.Values) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(sessionKey, st) })
	h.Register(r.Group("/"))

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func messagesOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	raw, _ := decode(t, w)["messages"].([]any)
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.(string))
	}
	return out
}

func flashTexts(st *session.State) []string {
	out := make([]string, 0, len(st.Flashes))
	for _, f := range st.Flashes {
		out = append(out, f.Text)
	}
	return out
}
