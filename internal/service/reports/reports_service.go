package reports

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/repository"
	"go.uber.org/zap"
)

type ReportUseCase interface {
	Reports(ctx context.Context) (*domain.Reports, error)
}

type ReportService struct {
	repo repository.ReportRepository
	log  *zap.Logger
}

func NewReportService(repo repository.ReportRepository, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{repo: repo, log: log}
}

// Reports runs the three booking history reports. On failure the partial
// result is still returned with empty lists alongside the error.
func (s *ReportService) Reports(ctx context.Context) (*domain.Reports, error) {
	out := &domain.Reports{
		TopFlights:      []domain.FlightLoad{},
		CapacityOverAvg: []domain.LargeAircraftFlight{},
		BagsByGate:      []domain.GateBaggage{},
	}

	top, err := s.repo.TopFlights(ctx)
	if err != nil {
		s.log.Warn("top flights report failed", zap.Error(err))
		return out, err
	}
	out.TopFlights = top

	large, err := s.repo.CapacityOverAverage(ctx)
	if err != nil {
		s.log.Warn("capacity report failed", zap.Error(err))
		return out, err
	}
	out.CapacityOverAvg = large

	bags, err := s.repo.BagsByGate(ctx)
	if err != nil {
		s.log.Warn("baggage report failed", zap.Error(err))
		return out, err
	}
	out.BagsByGate = bags
	return out, nil
}

var _ ReportUseCase = (*ReportService)(nil)
