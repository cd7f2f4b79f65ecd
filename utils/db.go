package utils

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes a MongoDB client connection and verifies it with a ping.
func ConnectDB(uri string) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.WithError(err).Fatal("failed to ping MongoDB")
	}

	log.Info("Connected to MongoDB")
	return client
}
