package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kinder_admin/internal/models"

	"github.com/go-redis/redis/v8"
)

// Справочник занятий меняется редко, поэтому кэшируем надолго.
const lessonCacheTTL = 6 * time.Hour

// LessonCache — кэш занятий в Redis. Ошибки Redis не фатальны:
// промах кэша означает лишний запрос к платформе, не отказ операции.
type LessonCache struct {
	redis *redis.Client
}

// NewLessonCache создает кэш поверх клиента Redis.
func NewLessonCache(client *redis.Client) *LessonCache {
	return &LessonCache{redis: client}
}

func lessonKey(id int64) string {
	return fmt.Sprintf("lesson_%d", id)
}

// Get достает занятие из кэша.
func (c *LessonCache) Get(ctx context.Context, id int64) (models.Lesson, bool) {
	if c == nil || c.redis == nil {
		return models.Lesson{}, false
	}

	cached, err := c.redis.Get(ctx, lessonKey(id)).Result()
	if err != nil || cached == "" {
		return models.Lesson{}, false
	}

	var lesson models.Lesson
	if err := json.Unmarshal([]byte(cached), &lesson); err != nil {
		return models.Lesson{}, false
	}
	return lesson, true
}

// Put кладет занятие в кэш.
func (c *LessonCache) Put(ctx context.Context, lesson models.Lesson) {
	if c == nil || c.redis == nil {
		return
	}

	raw, err := json.Marshal(lesson)
	if err != nil {
		return
	}
	c.redis.Set(ctx, lessonKey(lesson.ID), string(raw), lessonCacheTTL)
}
