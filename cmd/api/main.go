package main

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/busdepo/marketplace-api/internal/auth"
	"github.com/busdepo/marketplace-api/internal/config"
	"github.com/busdepo/marketplace-api/internal/db"
	"github.com/busdepo/marketplace-api/internal/events"
	"github.com/busdepo/marketplace-api/internal/handlers"
	"github.com/busdepo/marketplace-api/internal/middleware"
	"github.com/busdepo/marketplace-api/internal/storage"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Info("Connected to MongoDB")

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	log.Info("Connected to MinIO")

	publisher, err := events.NewPublisher(cfg.MQTT)
	if err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}
	defer publisher.Close()
	if publisher.Enabled() {
		log.Info("Listing events enabled")
	}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}

	vehicles := db.NewMongoVehicleCollection(database)
	spares := db.NewMongoSpareCollection(database)
	users := db.NewMongoUserCollection(database)
	makes := db.NewMongoMakeCollection(database)

	router := handlers.NewRouter(handlers.Handlers{
		Vehicles: handlers.NewVehicleHandler(vehicles, makes, store, cfg.MinIO.VehiclesBucket, publisher),
		Spares:   handlers.NewSpareHandler(spares, makes, store, cfg.MinIO.SparesBucket, publisher),
		Users:    handlers.NewUserHandler(users),
		Makes:    handlers.NewMakeHandler(makes),
		Auth:     handlers.NewAuthHandler(authService, users),
	}, middleware.NewAuthMiddleware(authService))

	handler := middleware.Logging(
		middleware.CORS(
			middleware.MaxBody(cfg.MaxUploadSize)(router),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Infof("HTTP server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
