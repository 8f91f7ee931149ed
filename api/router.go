package api

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/Domenick1991/skybook/internal/service/auth"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/service/reports"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Flights  flights.FlightUseCase
	Wizard   WizardUseCase
	Bookings booking.BookingUseCase
	Reports  reports.ReportUseCase
	Auth     auth.AuthUseCase
	Store    session.Store

	Sessions       SessionConfig
	AllowedOrigins []string
	SwaggerDir     string
	RequestTimeout time.Duration
	RatePerSecond  float64
	RateBurst      int
	Log            *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(d.Log))
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if d.SwaggerDir != "" {
		r.StaticFile("/swagger/doc.json", filepath.Join(d.SwaggerDir, "swagger.json"))
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	pages := r.Group("/")
	pages.Use(Timeout(d.RequestTimeout), RateLimit(d.RatePerSecond, d.RateBurst), Sessions(d.Store, d.Sessions, d.Log))

	NewSearchHandler(d.Flights).Register(pages)
	NewWizardHandler(d.Wizard).Register(pages)
	NewTripsHandler(d.Bookings).Register(pages)
	NewReportsHandler(d.Reports).Register(pages)
	NewAuthHandler(d.Auth, d.Store, d.Sessions, d.Log).Register(pages)

	return r
}
