package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/wizard"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/Domenick1991/skybook/internal/ticket"
	"github.com/gin-gonic/gin"
)

type WizardUseCase interface {
	SelectFlight(ctx context.Context, st *session.State, flightNo string) error
	PassengerForm(st *session.State) (*session.FlightSnapshot, *session.PassengerForm, error)
	EnterPassenger(ctx context.Context, st *session.State, form session.PassengerForm) error
	SeatMap(ctx context.Context, st *session.State) (*wizard.SeatMap, error)
	SelectSeat(ctx context.Context, st *session.State, seat, fareClass string) error
	Summary(st *session.State) (*wizard.Summary, error)
	Confirm(ctx context.Context, st *session.State) (*domain.Confirmation, error)
	Reset(ctx context.Context, st *session.State)
}

var _ WizardUseCase = (*wizard.Wizard)(nil)

type WizardHandler struct {
	wizard WizardUseCase
}

func NewWizardHandler(w WizardUseCase) *WizardHandler {
	return &WizardHandler{wizard: w}
}

func (h *WizardHandler) Register(router *gin.RouterGroup) {
	router.POST("/select_flight", h.selectFlight)
	router.GET("/passenger_info", h.passengerForm)
	router.POST("/passenger_info", h.enterPassenger)
	router.GET("/seat_selection", h.seatMap)
	router.POST("/seat_selection", h.selectSeat)
	router.GET("/confirm_booking", h.summary)
	router.POST("/confirm_booking", h.confirm)
	router.POST("/reset", h.reset)
	router.GET("/confirmation", h.confirmation)
	router.GET("/confirmation/ticket.pdf", h.eTicket)
}

type selectFlightRequest struct {
	FlightNo string `form:"flight_no"`
}

func (h *WizardHandler) selectFlight(c *gin.Context) {
	var req selectFlightRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, badRequest(err), "/search_result")
		return
	}

	if err := h.wizard.SelectFlight(c.Request.Context(), currentSession(c), req.FlightNo); err != nil {
		failForm(c, err, "/search_result")
		return
	}
	c.Redirect(http.StatusSeeOther, "/passenger_info")
}

func (h *WizardHandler) passengerForm(c *gin.Context) {
	st := currentSession(c)
	flight, form, err := h.wizard.PassengerForm(st)
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":  messages(st),
		"flight":    flightViewOf(*flight),
		"passenger": form,
	})
}

func (h *WizardHandler) enterPassenger(c *gin.Context) {
	var form session.PassengerForm
	if err := c.ShouldBind(&form); err != nil {
		failForm(c, badRequest(err), "/passenger_info")
		return
	}

	if err := h.wizard.EnterPassenger(c.Request.Context(), currentSession(c), form); err != nil {
		failForm(c, err, "/passenger_info")
		return
	}
	c.Redirect(http.StatusSeeOther, "/seat_selection")
}

func (h *WizardHandler) seatMap(c *gin.Context) {
	st := currentSession(c)
	sm, err := h.wizard.SeatMap(c.Request.Context(), st)
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages(st),
		"seats": seatMapView{
			Flight:    flightViewOf(*st.Flight),
			Available: sm.Available,
			Taken:     sm.Taken,
			Selected:  sm.Selected,
			FareClass: string(sm.FareClass),
		},
	})
}

type selectSeatRequest struct {
	Seat      string `form:"seat"`
	FareClass string `form:"fare_class"`
}

func (h *WizardHandler) selectSeat(c *gin.Context) {
	var req selectSeatRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, badRequest(err), "/seat_selection")
		return
	}

	if err := h.wizard.SelectSeat(c.Request.Context(), currentSession(c), req.Seat, req.FareClass); err != nil {
		failForm(c, err, "/seat_selection")
		return
	}
	c.Redirect(http.StatusSeeOther, "/confirm_booking")
}

func (h *WizardHandler) summary(c *gin.Context) {
	st := currentSession(c)
	sum, err := h.wizard.Summary(st)
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages(st),
		"summary":  summaryViewOf(sum),
	})
}

func (h *WizardHandler) confirm(c *gin.Context) {
	st := currentSession(c)
	conf, err := h.wizard.Confirm(c.Request.Context(), st)
	if err != nil {
		failForm(c, err, wizard.PathFor(st.Step()))
		return
	}
	redirectWithFlash(c, "booking confirmed: "+conf.Code, "/confirmation")
}

func (h *WizardHandler) reset(c *gin.Context) {
	h.wizard.Reset(c.Request.Context(), currentSession(c))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *WizardHandler) confirmation(c *gin.Context) {
	st := currentSession(c)
	if st.LastConfirmation == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":     messages(st),
		"confirmation": confirmationViewOf(st.LastConfirmation),
	})
}

func (h *WizardHandler) eTicket(c *gin.Context) {
	st := currentSession(c)
	if st.LastConfirmation == nil {
		renderError(c, domain.NotFoundError{Resource: "confirmation"}, nil)
		return
	}

	pdf, err := ticket.Render(*st.LastConfirmation)
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+st.LastConfirmation.Code+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
