package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix = "gen:user:"          // List of generation records per user: gen:user:{user_id}
	historyTTL       = 7 * 24 * time.Hour   // Records expire a week after the last generation
	historyMaxLen    = 20                   // Most recent records kept per user
)

// Record is one stored generation result.
type Record struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id,omitempty"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	Usage     Usage     `json:"usage"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRepository keeps a short per-user history of generation results in
// Redis. History is a convenience cache, not durable state; everything here
// carries a TTL.
type HistoryRepository struct {
	client *redis.Client
}

// NewHistoryRepository creates a history repository over the given client.
func NewHistoryRepository(client *redis.Client) *HistoryRepository {
	return &HistoryRepository{client: client}
}

func (r *HistoryRepository) key(userID string) string {
	return historyKeyPrefix + userID
}

// Append stores a record at the head of the user's history, trimming to the
// cap and refreshing the TTL.
func (r *HistoryRepository) Append(ctx context.Context, userID string, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := r.key(userID)
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, historyMaxLen-1)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// List returns the user's stored records, newest first.
func (r *HistoryRepository) List(ctx context.Context, userID string) ([]Record, error) {
	items, err := r.client.LRange(ctx, r.key(userID), 0, historyMaxLen-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]Record, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Clear removes the user's history.
func (r *HistoryRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
