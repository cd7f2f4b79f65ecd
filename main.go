// main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"go-shopmart/config"
	"go-shopmart/controllers"
	"go-shopmart/events"
	"go-shopmart/middleware"
	"go-shopmart/payment"
	"go-shopmart/repository"
	"go-shopmart/routes"
	"go-shopmart/services"
	"go-shopmart/utils"
)

func main() {
	utils.InitLogger()
	cfg := config.Load()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database(cfg.Database)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// External collaborators
	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	momoClient := payment.NewMomoClient(cfg.MomoEndpoint, cfg.MomoPartnerCode,
		cfg.MomoAccessKey, cfg.MomoSecretKey, cfg.MomoRedirectURL, cfg.MomoIPNURL)

	// Behavioral event pipeline; Kafka is optional in local setups
	sessions := events.NewSessionStore(30 * time.Minute)
	defer sessions.Close()
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize kafka producer")
		}
		defer producer.Close()
		publisher = producer
	} else {
		log.Warn("KAFKA_BROKERS not set; behavioral events will not be forwarded")
	}
	tracker := events.NewTracker(sessions, publisher)

	// Services
	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, cartRepo, momoClient, emailService)
	analyticsService := services.NewAnalyticsService(orderRepo, productRepo, reviewRepo)

	baseURL := fmt.Sprintf("http://localhost:%s", cfg.Port)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:     controllers.NewUserController(userRepo, emailService, baseURL),
		Products:  controllers.NewProductController(productRepo),
		Carts:     controllers.NewCartController(cartRepo, userRepo),
		Orders:    controllers.NewOrderController(orderService, userRepo),
		Reviews:   controllers.NewReviewController(reviewRepo, productRepo, userRepo),
		Analytics: controllers.NewAnalyticsController(analyticsService),
		Events:    controllers.NewEventController(tracker, userRepo),
	}, middleware.NewHTTPMetrics())

	// Start the server
	log.WithField("port", cfg.Port).Info("Server is running")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
