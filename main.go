package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evcharge/config"
	"evcharge/cron"
	"evcharge/database"
	bookingRepoPkg "evcharge/database/repository/booking"
	stationRepoPkg "evcharge/database/repository/station"
	userRepoPkg "evcharge/database/repository/user"
	"evcharge/handlers"
	"evcharge/routes"
	"evcharge/services/booking"
	"evcharge/services/notification"
	"evcharge/services/payment"
	"evcharge/services/scheduler"
	"evcharge/services/station"
	"evcharge/services/user"
	"evcharge/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.InitOTPCache()
	utils.FirebaseInit()

	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	stationRepo := stationRepoPkg.NewMongoStationRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// Services.
	gateway := payment.NewStripeGateway(logger)
	delivery := notification.NewFCMGateway(utils.FCMClient)

	bookingService := &booking.DefaultBookingService{
		Bookings: bookingRepo,
		Stations: stationRepo,
		Users:    userRepo,
		Gateway:  gateway,
		Currency: config.AppConfig.Currency,
	}
	stationService := &station.DefaultStationService{
		Stations:        stationRepo,
		DefaultRadiusKm: config.AppConfig.SearchRadiusKm,
	}
	userService := &user.DefaultUserService{
		Users: userRepo,
	}
	broadcaster := &notification.Broadcaster{
		Users:    userRepo,
		Delivery: delivery,
	}

	// Notification sweep.
	sweeper := &scheduler.Sweeper{
		Bookings: bookingRepo,
		Users:    userRepo,
		Delivery: delivery,
	}
	cron.InitSweepWorker(sweeper)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetAuthCacheClient(), utils.GetOTPCacheClient()},
		database.MongoClient,
	)

	// HTTP surface.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		BookingSvc: bookingService,
		StationSvc: stationService,
		UserSvc:    userService,
		Notifier:   broadcaster,
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
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
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
