package jobs

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const queueKey = "jobs:queue"

type Queue struct {
	client *redis.Client
}

type QueueMessage struct {
	JobID     string    `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client}
}

func (q *Queue) Enqueue(ctx context.Context, message QueueMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, queueKey, payload).Err()
}

func (q *Queue) DequeueBatch(ctx context.Context, batchSize int) ([]QueueMessage, error) {
	var items []QueueMessage
	for i := 0; i < batchSize; i++ {
		raw, err := q.client.RPop(ctx, queueKey).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return items, err
		}
		var msg QueueMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		items = append(items, msg)
	}
	return items, nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, queueKey).Result()
}
