package routes

import (
	"time"

	"innkeep/config"
	"innkeep/handlers"
	"innkeep/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterHealthRoutes registers liveness and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterWebhookRoutes registers gateway callbacks. They authenticate by signature, not token.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/webhooks/payments", hb.Payments.Webhook)
}

// RegisterHotelRoutes registers the owner-scoped property management endpoints.
func RegisterHotelRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/hotels", hb.Hotels.ListHotels)
	api.POST("/hotels", hb.Hotels.CreateHotel)

	hotel := api.Group("/hotels/:hotelID")
	{
		hotel.GET("", hb.Hotels.GetHotel)
		hotel.PUT("", hb.Hotels.UpdateHotel)
		hotel.DELETE("", hb.Hotels.DeleteHotel)

		hotel.GET("/units", hb.Units.ListUnits)
		hotel.POST("/units", hb.Units.CreateUnit)
		hotel.GET("/units/:unitID", hb.Units.GetUnit)
		hotel.PUT("/units/:unitID", hb.Units.UpdateUnit)
		hotel.DELETE("/units/:unitID", hb.Units.DeleteUnit)

		hotel.GET("/guests", hb.Guests.ListGuests)
		hotel.POST("/guests", hb.Guests.CreateGuest)
		hotel.GET("/guests/:guestID", hb.Guests.GetGuest)
		hotel.PUT("/guests/:guestID", hb.Guests.UpdateGuest)
		hotel.DELETE("/guests/:guestID", hb.Guests.DeleteGuest)

		hotel.GET("/bookings", hb.Bookings.ListBookings)
		hotel.POST("/bookings", hb.Bookings.CreateBooking)
		hotel.GET("/bookings/:bookingID", hb.Bookings.GetBooking)
		hotel.PUT("/bookings/:bookingID", hb.Bookings.UpdateBooking)
		hotel.DELETE("/bookings/:bookingID", hb.Bookings.DeleteBooking)
		hotel.POST("/bookings/:bookingID/cancel", hb.Bookings.CancelBooking)
		hotel.GET("/bookings/:bookingID/payments", hb.Payments.ListBookingPayments)
		hotel.POST("/bookings/:bookingID/payments", hb.Payments.RecordManualPayment)
		hotel.POST("/bookings/:bookingID/invoice", hb.Invoices.IssueInvoice)

		hotel.GET("/invoices", hb.Invoices.ListInvoices)
		hotel.GET("/payments", hb.Payments.ListHotelPayments)

		hotel.GET("/rules", hb.Rules.ListRules)
		hotel.POST("/rules", hb.Rules.CreateRule)
		hotel.GET("/rules/:ruleID", hb.Rules.GetRule)
		hotel.PUT("/rules/:ruleID", hb.Rules.UpdateRule)
		hotel.DELETE("/rules/:ruleID", hb.Rules.DeleteRule)

		hotel.GET("/reports/summary", hb.Bookings.Summary)
	}
}

// RegisterPaymentRoutes registers gateway-backed payment endpoints.
func RegisterPaymentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	payments := api.Group("/payments")
	{
		payments.POST("/checkout", hb.Payments.CreateCheckout)
		payments.POST("/direct", hb.Payments.CreateDirectPayment)
		payments.GET("/:paymentID", hb.Payments.GetPayment)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.MetricsMiddleware())

	RegisterHealthRoutes(r)
	RegisterWebhookRoutes(r, hb)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	api.Use(middleware.JWTAuthMiddleware())
	RegisterHotelRoutes(api, hb)
	RegisterPaymentRoutes(api, hb)
}
