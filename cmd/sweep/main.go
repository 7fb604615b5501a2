// Command sweep runs a single membership expiry sweep, for cron-style
// deployments that disable the in-process sweeper.
package main

import (
	"context"
	"log"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/config"
	"github.com/mansoorceksport/clubhouse/internal/repository"
	"github.com/mansoorceksport/clubhouse/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoMembershipRepository(client.Database(cfg.MongoDB.Database))
	n, err := service.NewExpirySweeper(repo, cfg.Sweep.Interval).RunOnce(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Printf("[Sweep] done, %d memberships expired", n)
}
