package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	archiveIndexKey = "report:archives"
	// archiveIndexSize is how many snapshot records are kept.
	archiveIndexSize = 100
)

// RedisArchiveIndex implements domain.ArchiveIndex with a capped Redis list
type RedisArchiveIndex struct {
	client *redis.Client
}

// NewRedisArchiveIndex creates a new Redis-backed archive index
func NewRedisArchiveIndex(client *redis.Client) *RedisArchiveIndex {
	return &RedisArchiveIndex{client: client}
}

// RecordArchive pushes rec to the head of the list and trims the tail.
func (r *RedisArchiveIndex) RecordArchive(ctx context.Context, rec domain.ArchiveRecord) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.RecordArchive",
		trace.WithAttributes(attribute.String("archive.key", rec.Key)),
	)
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal error: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, archiveIndexKey, data)
	pipe.LTrim(ctx, archiveIndexKey, 0, archiveIndexSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis archive index error: %w", err)
	}
	return nil
}

// RecentArchives returns up to limit records, newest first. Entries that no
// longer decode are skipped.
func (r *RedisArchiveIndex) RecentArchives(ctx context.Context, limit int) ([]domain.ArchiveRecord, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.RecentArchives",
		trace.WithAttributes(attribute.Int("archive.limit", limit)),
	)
	defer span.End()

	raw, err := r.client.LRange(ctx, archiveIndexKey, 0, int64(limit)-1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("redis lrange error: %w", err)
	}

	records := make([]domain.ArchiveRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.ArchiveRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			span.RecordError(err)
			continue
		}
		records = append(records, rec)
	}
	span.SetAttributes(attribute.Int("archive.count", len(records)))
	return records, nil
}
