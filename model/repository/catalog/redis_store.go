package catalog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"

	"ppe.GO/model/entity"
)

// DefaultRedisKey is the hash holding one field per item code.
const DefaultRedisKey = "ppe:catalog"

// hashClient is the subset of redis.Cmdable the store uses.
type hashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd
}

// RedisStore keeps the catalog in a Redis hash; values are JSON {name, wear_months}.
// A plain string value is read as the display name.
type RedisStore struct {
	client hashClient
	key    string
}

func NewRedisStore(client hashClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

type redisValue struct {
	Name       string `json:"name"`
	WearMonths int    `json:"wear_months,omitempty"`
}

func (s *RedisStore) Load(ctx context.Context) ([]entity.CatalogEntry, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	out := make([]entity.CatalogEntry, 0, len(fields))
	for code, raw := range fields {
		out = append(out, decodeValue(code, raw))
	}
	return out, nil
}

func (s *RedisStore) Put(ctx context.Context, entry entity.CatalogEntry) error {
	b, err := json.Marshal(redisValue{Name: entry.DisplayName, WearMonths: entry.DefaultWearMonths})
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key, entry.Code, string(b)).Err()
}

// Add uses HSETNX so concurrent registrations of one code keep the first name.
func (s *RedisStore) Add(ctx context.Context, entry entity.CatalogEntry) (bool, error) {
	b, err := json.Marshal(redisValue{Name: entry.DisplayName, WearMonths: entry.DefaultWearMonths})
	if err != nil {
		return false, err
	}
	return s.client.HSetNX(ctx, s.key, entry.Code, string(b)).Result()
}

func decodeValue(code, raw string) entity.CatalogEntry {
	e := entity.CatalogEntry{Code: code}
	var v redisValue
	if strings.HasPrefix(strings.TrimSpace(raw), "{") && json.Unmarshal([]byte(raw), &v) == nil {
		e.DisplayName = v.Name
		e.DefaultWearMonths = v.WearMonths
		return e
	}
	e.DisplayName = strings.TrimSpace(raw)
	return e
}
