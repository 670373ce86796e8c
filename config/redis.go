package config

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance
var RedisClient *redis.Client

// Accessed as config.RedisClient in other files

// InitRedis connects RedisClient when REDIS_ADDR is set and leaves it nil otherwise.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		logg.WithField("REDIS_DB", os.Getenv("REDIS_DB")).Warn("invalid REDIS_DB, using 0")
		db = 0
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})
}

func RedisCtx() context.Context {
	return context.Background()
}
