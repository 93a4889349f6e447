package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

// InitRedis подключает Redis для кэша справочных данных платформы (занятия).
// Сервис работает и без Redis — кэш тогда просто выключен.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	log.Println("Клиент Redis инициализирован:", addr)
}
