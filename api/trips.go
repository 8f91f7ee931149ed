package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type TripsHandler struct {
	service booking.BookingUseCase
}

func NewTripsHandler(service booking.BookingUseCase) *TripsHandler {
	return &TripsHandler{service: service}
}

func (h *TripsHandler) Register(router *gin.RouterGroup) {
	router.GET("/mytrips", h.list)
	router.POST("/booking/delete", h.delete)
	router.POST("/booking/update", h.update)
}

func (h *TripsHandler) list(c *gin.Context) {
	st := currentSession(c)
	page := gin.H{"trips": []tripView{}, "account": accountViewOf(st.Account)}
	if st.Account == nil {
		page["messages"] = append(messages(st), "log in to see your trips")
		c.JSON(http.StatusOK, page)
		return
	}

	trips, err := h.service.ListByPassenger(c.Request.Context(), st.Account.SSN)
	if err != nil {
		renderError(c, err, page)
		return
	}
	views := make([]tripView, 0, len(trips))
	for _, t := range trips {
		views = append(views, tripViewOf(t))
	}
	page["trips"] = views
	page["messages"] = messages(st)
	c.JSON(http.StatusOK, page)
}

type bookingKeyRequest struct {
	FlightNo string `form:"flight_no"`
	BookedAt string `form:"booked_at"`
}

type updateBookingRequest struct {
	bookingKeyRequest
	SeatNo       string `form:"seat_no"`
	PriceCents   string `form:"price_cents"`
	BaggageCount string `form:"baggage_count"`
}

// key builds the booking key for the logged-in passenger; visitors can only
// address their own bookings.
func (r bookingKeyRequest) key(ssn string) (domain.BookingKey, error) {
	bookedAt, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(r.BookedAt))
	if err != nil {
		return domain.BookingKey{}, domain.ValidationError{Field: "booked_at", Msg: "must be an RFC 3339 timestamp"}
	}
	return domain.BookingKey{
		FlightNo:     strings.ToUpper(strings.TrimSpace(r.FlightNo)),
		PassengerSSN: ssn,
		BookedAt:     bookedAt.UTC(),
	}, nil
}

func (r updateBookingRequest) patch() (domain.BookingPatch, error) {
	var p domain.BookingPatch
	if s := strings.TrimSpace(r.SeatNo); s != "" {
		p.SeatNo = &s
	}
	if s := strings.TrimSpace(r.PriceCents); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return p, domain.ValidationError{Field: "price_cents", Msg: "must be a whole number"}
		}
		p.PriceCents = &v
	}
	if s := strings.TrimSpace(r.BaggageCount); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return p, domain.ValidationError{Field: "baggage_count", Msg: "must be a whole number"}
		}
		p.BaggageCount = &v
	}
	return p, nil
}

func (h *TripsHandler) delete(c *gin.Context) {
	st := currentSession(c)
	if st.Account == nil {
		redirectWithFlash(c, "log in to manage your trips", "/login")
		return
	}

	var req bookingKeyRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, badRequest(err), "/mytrips")
		return
	}
	key, err := req.key(st.Account.SSN)
	if err != nil {
		failForm(c, err, "/mytrips")
		return
	}

	removed, err := h.service.Delete(c.Request.Context(), key, st.Account.Email)
	if err != nil {
		failForm(c, err, "/mytrips")
		return
	}
	if removed {
		redirectWithFlash(c, "booking cancelled", "/mytrips")
		return
	}
	redirectWithFlash(c, "booking was already cancelled", "/mytrips")
}

func (h *TripsHandler) update(c *gin.Context) {
	st := currentSession(c)
	if st.Account == nil {
		redirectWithFlash(c, "log in to manage your trips", "/login")
		return
	}

	var req updateBookingRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, badRequest(err), "/mytrips")
		return
	}
	key, err := req.key(st.Account.SSN)
	if err != nil {
		failForm(c, err, "/mytrips")
		return
	}
	patch, err := req.patch()
	if err != nil {
		failForm(c, err, "/mytrips")
		return
	}

	if err := h.service.Update(c.Request.Context(), key, patch, st.Account.Email); err != nil {
		failForm(c, err, "/mytrips")
		return
	}
	if patch.IsEmpty() {
		redirectWithFlash(c, "nothing to change", "/mytrips")
		return
	}
	redirectWithFlash(c, "booking updated", "/mytrips")
}
