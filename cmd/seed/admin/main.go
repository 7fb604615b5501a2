// Command admin seeds the initial admin account and, optionally, a default
// duration catalog. Both steps are idempotent.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/config"
	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/mansoorceksport/clubhouse/internal/repository"
	"github.com/mansoorceksport/clubhouse/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	var (
		username  = flag.String("username", "admin", "Admin username")
		email     = flag.String("email", "admin@test.com", "Admin email")
		password  = flag.String("password", "Admin@123", "Admin password")
		durations = flag.Bool("durations", false, "Also seed the default 1/3/6/12 month durations")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	users := repository.NewMongoUserRepository(db)
	tokens := service.NewTokenService(cfg.JWT, repository.NewMongoRefreshTokenRepository(db), users)
	authService := service.NewAuthService(users, tokens)

	created, err := authService.EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if created {
		log.Printf("[Seed] admin user created: %s", *email)
	} else {
		log.Printf("[Seed] admin user already exists: %s", *email)
	}

	if !*durations {
		return
	}

	durationService := service.NewDurationService(repository.NewMongoDurationRepository(db))
	catalog := []service.CreateDurationRequest{
		{DurationMonths: 1, Price: 50},
		{DurationMonths: 3, Price: 135},
		{DurationMonths: 6, Price: 250},
		{DurationMonths: 12, Price: 450},
	}
	for _, req := range catalog {
		_, err := durationService.CreateDuration(ctx, req)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			log.Printf("[Seed] %s already exists, skipping", domain.DurationLabel(req.DurationMonths))
		case err != nil:
			log.Fatalf("Failed to seed duration: %v", err)
		default:
			log.Printf("[Seed] added %s at %.2f", domain.DurationLabel(req.DurationMonths), req.Price)
		}
	}
}
