package api

import (
	"net/http"
	"testing"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportsHandler_reports(t *testing.T) {
	service := &MockReportUseCase{}
	service.On("Reports", mock.Anything).Return(&domain.Reports{
		TopFlights:      []domain.FlightLoad{{FlightNo: "SK1", Passengers: 3}},
		CapacityOverAvg: []domain.LargeAircraftFlight{{FlightNo: "SK2", Model: "B777", Capacity: 300}},
		BagsByGate:      []domain.GateBaggage{{Gate: "A1", TotalBags: 7}},
	}, nil).Once()

	w := serve(NewReportsHandler(service), session.New(session.NewID()), http.MethodGet, "/reports", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["top_flights"], 1)
	assert.Len(t, body["capacity_over_average"], 1)
	assert.Len(t, body["bags_by_gate"], 1)
}

func TestReportsHandler_reportsUnavailable(t *testing.T) {
	service := &MockReportUseCase{}
	service.On("Reports", mock.Anything).Return(&domain.Reports{
		TopFlights:      []domain.FlightLoad{},
		CapacityOverAvg: []domain.LargeAircraftFlight{},
		BagsByGate:      []domain.GateBaggage{},
	}, domain.UnavailableError{}).Once()

	w := serve(NewReportsHandler(service), session.New(session.NewID()), http.MethodGet, "/reports", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Empty(t, body["top_flights"])
	assert.NotNil(t, body["top_flights"])
	assert.Len(t, messagesOf(t, w), 1)
}
