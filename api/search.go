package api

import (
	"net/http"

	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service flights.FlightUseCase
}

func NewSearchHandler(service flights.FlightUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.index)
	router.POST("/", h.search)
	router.GET("/search_result", h.results)
}

func (h *SearchHandler) index(c *gin.Context) {
	st := currentSession(c)
	page := gin.H{
		"messages": messages(st),
		"step":     st.Step().String(),
		"account":  accountViewOf(st.Account),
	}
	if st.Search != nil {
		page["query"] = queryView{From: st.Search.From, To: st.Search.To, Date: st.Search.Date}
	}
	c.JSON(http.StatusOK, page)
}

func (h *SearchHandler) search(c *gin.Context) {
	var q flights.SearchQuery
	if err := c.ShouldBind(&q); err != nil {
		failForm(c, badRequest(err), "/")
		return
	}

	res, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		failForm(c, err, "/")
		return
	}

	snap := &session.SearchSnapshot{From: q.From, To: q.To, Date: q.Date, Demo: res.Demo}
	for _, f := range res.Flights {
		fs := session.SnapshotOf(f)
		fs.Demo = res.Demo
		snap.Flights = append(snap.Flights, fs)
	}
	st := currentSession(c)
	st.Search = snap
	if res.Demo {
		st.AddFlash(flashInfo, "no matching flights; showing sample flights that cannot be booked")
	}
	c.Redirect(http.StatusSeeOther, "/search_result")
}

func (h *SearchHandler) results(c *gin.Context) {
	st := currentSession(c)
	if st.Search == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages(st),
		"search":   searchViewOf(st.Search),
	})
}
