package middleware

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultIdempotencyTTL is how long a replayable response is kept.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyMiddleware replays the stored response of a mutating request that
// repeats an X-Correlation-ID seen within ttl. Only 2xx responses are stored,
// so a failed attempt can be retried with the same id.
func IdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch &&
			c.Method() != fiber.MethodPut && c.Method() != fiber.MethodDelete {
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" || redisClient == nil {
			return c.Next()
		}

		// Scope by caller and route so ids cannot collide across users
		key := fmt.Sprintf("idempotency:%s:%s:%s:%s", UserID(c), c.Method(), c.Path(), correlationID)
		ctx := c.UserContext()

		cached, err := redisClient.HGetAll(ctx, key).Result()
		if err == nil && cached["body"] != "" {
			status, convErr := strconv.Atoi(cached["status"])
			if convErr != nil {
				status = fiber.StatusOK
			}
			c.Set("X-Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(status).SendString(cached["body"])
		}
		if err != nil {
			log.Printf("[Idempotency] lookup failed for %s: %v", correlationID, err)
		}

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode >= 200 && statusCode < 300 {
			body := string(c.Response().Body())
			if len(body) > 0 {
				storeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				pipe := redisClient.TxPipeline()
				pipe.HSet(storeCtx, key, "status", statusCode, "body", body)
				pipe.Expire(storeCtx, key, ttl)
				if _, err := pipe.Exec(storeCtx); err != nil {
					log.Printf("[Idempotency] failed to store response for %s: %v", correlationID, err)
				}
			}
		}

		return nil
	}
}
