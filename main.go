package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "kinder_admin/docs"
	"kinder_admin/internal/auth"
	"kinder_admin/internal/draft"
	"kinder_admin/internal/flush"
	"kinder_admin/internal/handlers"
	"kinder_admin/internal/platform"
	"kinder_admin/internal/storage"
	"kinder_admin/internal/tasks"
	"kinder_admin/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						Админ-консоль детского сада: мастер расписаний
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	baseURL := os.Getenv("PLATFORM_API_URL")
	if baseURL == "" {
		log.Fatal("Не задан PLATFORM_API_URL")
	}

	storage.InitRedis()

	client := platform.NewClient(baseURL, &http.Client{Timeout: platformTimeout()}, platform.NewLessonCache(storage.RedisClient))
	sessions := draft.NewManager()
	flusher := flush.New(client, ws.HubInstance)
	handlers.Init(sessions, client, flusher)

	tasks.InitScheduler(sessions)

	go ws.HubInstance.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", auth.AuthMiddleware())
	{
		api.POST("/sessions", handlers.CreateSessionHandler)
		api.GET("/sessions/:id", handlers.GetSessionHandler)
		api.DELETE("/sessions/:id", handlers.DeleteSessionHandler)

		api.GET("/sessions/:id/schedules", handlers.ListSchedulesHandler)
		api.POST("/sessions/:id/schedules", handlers.AddScheduleHandler)
		api.PUT("/sessions/:id/schedules/:sid", handlers.UpdateScheduleHandler)
		api.DELETE("/sessions/:id/schedules/:sid", handlers.RemoveScheduleHandler)
		api.PUT("/sessions/:id/schedules/:sid/save", handlers.SaveScheduleHandler)

		api.GET("/sessions/:id/schedules/:sid/activities", handlers.ListActivitiesHandler)
		api.POST("/sessions/:id/schedules/:sid/activities", handlers.AddActivityHandler)
		api.PUT("/sessions/:id/activities/:aid", handlers.UpdateActivityHandler)
		api.DELETE("/sessions/:id/activities/:aid", handlers.RemoveActivityHandler)

		api.GET("/sessions/:id/grid", handlers.GetGridHandler)
		api.POST("/sessions/:id/week/next", handlers.NextWeekHandler)
		api.POST("/sessions/:id/week/prev", handlers.PrevWeekHandler)
		api.PUT("/sessions/:id/week", handlers.SetWeekHandler)

		api.POST("/sessions/:id/flush", handlers.FlushSessionHandler)

		api.GET("/activities/:id/deletion-impact", handlers.ActivityDeletionImpactHandler)
		api.DELETE("/activities/:id", handlers.DeletePersistedActivityHandler)
		api.DELETE("/schedules/:id", handlers.DeletePersistedScheduleHandler)
	}

	r.GET("/api/sessions/:id/ws", ws.SessionWebSocketHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}

func platformTimeout() time.Duration {
	raw := os.Getenv("PLATFORM_TIMEOUT_SEC")
	if raw == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(raw + "s")
	if err != nil {
		log.Println("Неверное значение PLATFORM_TIMEOUT_SEC, используется 10s:", raw)
		return 10 * time.Second
	}
	return d
}
