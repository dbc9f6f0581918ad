package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"essence/internal/handlers"
	"essence/internal/repositories"
	"essence/internal/services"
	"essence/pkg/kvstore"
	"essence/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORAGE_DRIVER", "sqlite")
	viper.SetDefault("STORAGE_DSN", "essence.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables order events
	viper.SetDefault("JWT_SECRET", "essence_dev_secret")
	viper.SetDefault("ADMIN_PASSWORD", "GMVP")
	viper.SetDefault("WHATSAPP_PHONE", "18294396607")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Persistent key-value store ---
	store, err := openStore(viper.GetString("STORAGE_DRIVER"), viper.GetString("STORAGE_DSN"))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	// --- Optional RabbitMQ client ---
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Repositories ---
	catalogRepo := repositories.NewCatalogRepository(store)
	userRepo := repositories.NewUserRepository(store)
	orderLogRepo := repositories.NewOrderLogRepository(store)
	userDataRepo := repositories.NewUserDataRepository(store)
	reviewRepo := repositories.NewReviewRepository(store)
	notificationRepo := repositories.NewNotificationRepository(store)

	// --- Services ---
	sessionService := services.NewSessionService(userRepo, viper.GetString("ADMIN_PASSWORD"), viper.GetString("JWT_SECRET"))
	catalogService := services.NewCatalogService(catalogRepo, reviewRepo)
	adminService := services.NewAdminService(orderLogRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	notificationService.Attach(store)

	var publisher services.OrderEventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	storeService := services.NewStoreService(userDataRepo, orderLogRepo, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(sessionService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, reviewRepo, sessionService)
	cartHandler := handlers.NewCartHandler(storeService, catalogService, sessionService)
	orderHandler := handlers.NewOrderHandler(storeService, sessionService, notificationService, viper.GetString("WHATSAPP_PHONE"))
	adminHandler := handlers.NewAdminHandler(adminService, catalogService, sessionService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	adminHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for orders...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openStore builds the configured key-value store backend. The
// in-memory backend carries the browser-style quota; the database
// backends do not.
func openStore(driver, dsn string) (kvstore.Store, error) {
	if driver == "memory" {
		return kvstore.NewMemoryStore(), nil
	}
	return kvstore.OpenGormStore(driver, dsn)
}
