package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/repository"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type SearchQuery struct {
	From string `form:"from" json:"from"`
	To   string `form:"to" json:"to"`
	Date string `form:"date" json:"date"`
}

func (q SearchQuery) cacheKey() string {
	return fmt.Sprintf("from=%s|to=%s|date=%s",
		strings.TrimSpace(q.From), strings.TrimSpace(q.To), strings.TrimSpace(q.Date))
}

// SearchResult carries real flights, or the demo list when Demo is set.
// Demo flights are never stored and cannot be booked.
type SearchResult struct {
	Flights []domain.Flight
	Demo    bool
}

type FlightUseCase interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
	GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error)
}

type SearchCache interface {
	GetSearch(ctx context.Context, query string) ([]domain.Flight, bool, error)
	SetSearch(ctx context.Context, query string, flights []domain.Flight) error
}

type FlightService struct {
	repo         repository.FlightRepository
	cache        SearchCache
	loc          *time.Location
	demoFallback bool
	now          func() time.Time
	log          *zap.Logger
}

type FlightServiceOption func(*FlightService)

func WithCache(c SearchCache) FlightServiceOption {
	return func(s *FlightService) { s.cache = c }
}

func WithDemoFallback(enabled bool) FlightServiceOption {
	return func(s *FlightService) { s.demoFallback = enabled }
}

func WithLocation(loc *time.Location) FlightServiceOption {
	return func(s *FlightService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) FlightServiceOption {
	return func(s *FlightService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewFlightService(repo repository.FlightRepository, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo: repo,
		loc:  time.UTC,
		now:  time.Now,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	filter, err := s.filterFor(q)
	if err != nil {
		return nil, err
	}

	flights, err := s.lookup(ctx, q, filter)
	if err != nil {
		return nil, err
	}

	if len(flights) == 0 && s.demoFallback {
		s.log.Info("no flights found, serving demo list", zap.String("query", q.cacheKey()))
		return &SearchResult{Flights: demoFlights(s.demoDay(filter)), Demo: true}, nil
	}
	return &SearchResult{Flights: flights}, nil
}

func (s *FlightService) lookup(ctx context.Context, q SearchQuery, filter repository.SearchFilter) ([]domain.Flight, error) {
	key := q.cacheKey()
	if s.cache != nil {
		cached, ok, err := s.cache.GetSearch(ctx, key)
		if err != nil {
			s.log.Warn("search cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, key, flights); err != nil {
			s.log.Warn("search cache write failed", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) filterFor(q SearchQuery) (repository.SearchFilter, error) {
	filter := repository.SearchFilter{
		FromCity: strings.TrimSpace(q.From),
		ToCity:   strings.TrimSpace(q.To),
	}

	date := strings.TrimSpace(q.Date)
	if date == "" {
		return filter, nil
	}
	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return filter, domain.ValidationError{Field: "date", Msg: "must be a date in YYYY-MM-DD form"}
	}
	filter.DayStart = day
	filter.DayEnd = day.AddDate(0, 0, 1)
	return filter, nil
}

func (s *FlightService) demoDay(filter repository.SearchFilter) time.Time {
	if !filter.DayStart.IsZero() {
		return filter.DayStart
	}
	y, m, d := s.now().In(s.loc).AddDate(0, 0, 1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// GetByNumber returns a bookable flight. Departed and demo flights are
// reported as not found.
func (s *FlightService) GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error) {
	flightNo = strings.ToUpper(strings.TrimSpace(flightNo))
	if flightNo == "" {
		return nil, domain.ValidationError{Field: "flight_no", Msg: "is required"}
	}
	if IsDemo(flightNo) {
		return nil, domain.NotFoundError{Resource: "flight"}
	}

	f, err := s.repo.GetByNumber(ctx, flightNo)
	if err != nil {
		return nil, err
	}
	if f.DepartureTime.Before(s.now()) {
		return nil, domain.NotFoundError{Resource: "flight"}
	}
	return f, nil
}

var _ FlightUseCase = (*FlightService)(nil)
