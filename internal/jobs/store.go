package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Repository is the part of the store the worker needs.
type Repository interface {
	Get(ctx context.Context, id string) (*Job, error)
	Save(ctx context.Context, job *Job) error
	TakeMedia(ctx context.Context, id string) ([]byte, error)
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func jobKey(id string) string {
	return "job:" + id
}

func mediaKey(id string) string {
	return "job:" + id + ":media"
}

func (s *Store) Save(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(job.ID), payload, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	raw, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// StageMedia keeps the upload next to the job until a worker takes it.
func (s *Store) StageMedia(ctx context.Context, id string, data []byte) error {
	return s.client.Set(ctx, mediaKey(id), data, s.ttl).Err()
}

// TakeMedia returns the staged upload and removes it.
func (s *Store) TakeMedia(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.GetDel(ctx, mediaKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}
