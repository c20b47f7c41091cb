package main

import (
	"context"
	"log"

	"bus-booking-backend/config"
	"bus-booking-backend/internal/cache"
	"bus-booking-backend/internal/database"
	"bus-booking-backend/internal/handler"
	"bus-booking-backend/internal/middleware"
	"bus-booking-backend/internal/notification"
	"bus-booking-backend/internal/queue"
	"bus-booking-backend/internal/repository"
	"bus-booking-backend/internal/service"
	"bus-booking-backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	gin.SetMode(cfg.Server.GinMode)

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	tripRepo := repository.NewTripRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewSupportTicketRepository(pool)

	holdManager := cache.NewRedisSeatHoldManager(rdb)

	// 通知 producer：未設定 broker 時退成 noop
	var notifier notification.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		notifier, err = notification.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
		if err != nil {
			log.Fatalf("Failed to initialize kafka producer: %v", err)
		}
	} else {
		notifier = notification.NewNoopProducer()
	}
	defer notifier.Close()

	// Services
	inventoryService := service.NewInventoryService(
		tripRepo, seatRepo, holdManager,
		cfg.Booking.SeatHoldTTL, cfg.Booking.MaxSeatsPerHold,
	)
	tripService := service.NewTripService(pool, tripRepo, seatRepo, holdManager)
	bookingService := service.NewBookingService(pool, bookingRepo, tripRepo, seatRepo, inventoryService, notifier)
	supportService := service.NewSupportService(ticketRepo, notifier)

	// 金流回呼隊列與 worker
	paymentQueue, err := queue.NewRedisStreamPaymentQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize payment queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paymentWorker := worker.NewPaymentWorker(bookingService, paymentQueue)
	if err := paymentWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start payment worker: %v", err)
	}

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	staffOnly := middleware.RequireRole(cfg.JWT.Secret, middleware.RoleVendor, middleware.RoleAdmin)
	adminOnly := middleware.RequireRole(cfg.JWT.Secret, middleware.RoleAdmin)

	handler.NewTripHandler(tripService, inventoryService).RegisterRoutes(router, staffOnly)
	handler.NewBookingHandler(bookingService, paymentQueue).RegisterRoutes(router, staffOnly)
	handler.NewSupportTicketHandler(supportService).RegisterRoutes(router, adminOnly)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
