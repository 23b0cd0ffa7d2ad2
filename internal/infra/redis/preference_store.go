package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore keeps preferences as plain keys: SET quiz:pref:{key} {value}.
// Values never expire.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *PreferenceStore) key(key string) string {
	return "quiz:pref:" + key
}
