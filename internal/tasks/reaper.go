package tasks

import (
	"log"
	"os"
	"strconv"
	"time"

	"kinder_admin/internal/draft"

	"github.com/robfig/cron/v3"
)

const defaultSessionTTL = 2 * time.Hour

// SessionTTL читает время жизни простаивающей сессии из окружения (в минутах).
func SessionTTL() time.Duration {
	raw := os.Getenv("SESSION_TTL_MIN")
	if raw == "" {
		return defaultSessionTTL
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 {
		log.Println("Неверное значение SESSION_TTL_MIN, используется значение по умолчанию:", raw)
		return defaultSessionTTL
	}
	return time.Duration(minutes) * time.Minute
}

// ReapIdleSessions удаляет сессии, к которым давно не обращались. Черновики живут
// только в памяти, поэтому брошенная сессия — это просто занятая память.
func ReapIdleSessions(m *draft.Manager, ttl time.Duration) {
	removed := m.ReapIdle(ttl)
	if removed > 0 {
		log.Printf("Удалено простаивающих сессий: %d (осталось %d)", removed, m.Len())
	}
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler(m *draft.Manager) *cron.Cron {
	c := cron.New(cron.WithSeconds())
	ttl := SessionTTL()

	// Очистка брошенных сессий каждые 10 минут.
	_, err := c.AddFunc("0 */10 * * * *", func() { ReapIdleSessions(m, ttl) })
	if err != nil {
		log.Println("Ошибка запуска cron-задачи ReapIdleSessions:", err)
	}

	// Ежечасный отчет о числе активных сессий.
	_, err = c.AddFunc("0 0 * * * *", func() {
		log.Printf("Активных сессий редактирования: %d", m.Len())
	})
	if err != nil {
		log.Println("Ошибка запуска cron-задачи отчета о сессиях:", err)
	}

	c.Start()
	log.Println("Cron-планировщик запущен.")
	return c
}
