package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innkeep/config"
	"innkeep/database"
	"innkeep/database/repository"
	"innkeep/handlers"
	"innkeep/routes"
	"innkeep/services/booking"
	"innkeep/services/guest"
	"innkeep/services/hotel"
	"innkeep/services/invoice"
	"innkeep/services/payment"
	"innkeep/services/rule"
	"innkeep/services/unit"
	"innkeep/utils"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if err := utils.RegisterValidators(); err != nil {
		logger.Sugar().Fatalf("main: failed to register validators: %v", err)
	}
	if err := database.InitDB(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer database.Close()
	if err := utils.InitCache(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	verifier, err := payment.NewVerifier(config.AppConfig.WebhookMode, config.AppConfig.WebhookSecret, config.AppConfig.WebhookTolerance)
	if err != nil {
		logger.Sugar().Fatalf("main: webhook verifier: %v", err)
	}
	gateway := payment.NewStripeGateway(payment.StripeOptions{
		Key:     config.AppConfig.StripeKey,
		BaseURL: config.AppConfig.StripeAPIURL,
		Timeout: config.AppConfig.GatewayTimeout,
	})
	if config.AppConfig.StripeKey == "" {
		logger.Warn("STRIPE_KEY is empty, checkout and direct payments are disabled")
	}

	// repositories.
	repos := repository.New(database.DB)

	// services.
	hotelService := &hotel.DefaultHotelService{
		Repo:            repos.Hotels,
		DefaultCurrency: config.AppConfig.DefaultCurrency,
	}
	unitService := &unit.DefaultUnitService{Hotels: hotelService, Repo: repos.Units}
	guestService := &guest.DefaultGuestService{Hotels: hotelService, Repo: repos.Guests}
	ruleService := &rule.DefaultRuleService{Hotels: hotelService, Repo: repos.Rules}
	bookingService := &booking.DefaultBookingService{
		Hotels:   hotelService,
		Bookings: repos.Bookings,
		Units:    repos.Units,
		Guests:   repos.Guests,
	}
	invoiceService := &invoice.DefaultInvoiceService{
		Hotels:   hotelService,
		Bookings: repos.Bookings,
		Repo:     repos.Invoices,
	}
	paymentService := &payment.DefaultPaymentService{
		Hotels:   hotelService,
		Bookings: repos.Bookings,
		Payments: repos.Payments,
		Gateway:  gateway,
		Verifier: verifier,
		Now:      time.Now,
	}
	if client := utils.GetCacheClient(); client != nil {
		paymentService.Idempotency = utils.NewRedisIdempotencyStore(client, utils.IdempotencyTTL)
	}

	handlerBundle := &handlers.HandlerBundle{
		Hotels:   handlers.NewHotelHandler(hotelService),
		Units:    handlers.NewUnitHandler(unitService),
		Guests:   handlers.NewGuestHandler(guestService),
		Bookings: handlers.NewBookingHandler(bookingService),
		Payments: handlers.NewPaymentHandler(paymentService),
		Invoices: handlers.NewInvoiceHandler(invoiceService),
		Rules:    handlers.NewRuleHandler(ruleService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(utils.ErrorHandler())
	routes.RegisterRoutes(router, handlerBundle)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	if sqlDB, err := database.DB.DB(); err == nil {
		utils.StartHealthMonitor(monitorCtx, sqlDB, utils.GetCacheClient(), 30*time.Second)
	}

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	logger.Sugar().Info("main: server stopped gracefully")
}
