package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Hotel          HotelHTTP
	Booking        BookingHTTP
	Owner          OwnerHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/verify-otp", h.Auth.VerifyOTP)
		api.GET("/auth/validate-token", h.Auth.ValidateToken)
		api.POST("/auth/logout", h.Auth.Logout)
	}
	if h.Hotel != nil {
		api.GET("/hotels", h.Hotel.List)
		api.GET("/hotels/search", h.Hotel.Search)
		api.GET("/hotels/recommendations", h.Hotel.Recommendations)
		api.GET("/hotels/:id", h.Hotel.Detail)
		api.POST("/hotels/:id/click", h.Hotel.Click)
	}
	if h.Booking != nil {
		api.POST("/hotels/:id/bookings/payment-intent", h.Booking.PaymentIntent)
		api.POST("/hotels/:id/bookings", h.Booking.Create)
		api.GET("/my-bookings", h.Booking.MyBookings)
		api.DELETE("/my-bookings/:hotelId/:bookingId", h.Booking.Cancel)
	}
	if h.Owner != nil {
		owner := api.Group("/my-hotels")
		owner.GET("", h.Owner.List)
		owner.POST("", h.Owner.Create)
		owner.GET("/:id", h.Owner.Get)
		owner.PUT("/:id", h.Owner.Update)
		owner.DELETE("/:id", h.Owner.Delete)
		owner.GET("/:id/bookings", h.Owner.Bookings)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.DELETE("/users/:id", h.Admin.DeleteUser)
		adminGroup.GET("/hotels", h.Admin.ListHotels)
		adminGroup.DELETE("/hotels/:id", h.Admin.DeleteHotel)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
