package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/flush"
	"kinder_admin/internal/handlers"
	"kinder_admin/internal/platform"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// AuthMiddlewareTest подставляет userID из заголовка вместо проверки JWT.
func AuthMiddlewareTest() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := c.Request.Header.Get("X-Test-UserID")
		if userIDStr == "" {
			c.Set("userID", uint(1))
		} else {
			id, err := strconv.Atoi(userIDStr)
			if err != nil {
				c.Set("userID", uint(1))
			} else {
				c.Set("userID", uint(id))
			}
		}
		c.Next()
	}
}

// fakePlatform — HTTP-заглушка платформы: конверт {success, data, message},
// ID выдаются по счетчику, все запросы записываются.
type fakePlatform struct {
	mu       sync.Mutex
	nextID   int64
	requests []string
}

func (f *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()

	envelope := func(w http.ResponseWriter, data interface{}) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
	}

	mux.HandleFunc("/classes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		f.record("POST /classes")
		envelope(w, map[string]interface{}{"id": f.issue(), "name": "Солнышко"})
	})
	mux.HandleFunc("/schedules", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			WeekNumber int   `json:"weekNumber"`
			ClassID    int64 `json:"classId"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		f.record(fmt.Sprintf("POST /schedules w%d", payload.WeekNumber))
		envelope(w, map[string]interface{}{
			"id": f.issue(), "classId": payload.ClassID, "weekNumber": payload.WeekNumber,
		})
	})
	mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			Topic      string `json:"topic"`
			ScheduleID int64  `json:"scheduleId"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		f.record(fmt.Sprintf("POST /activities %s->%d", payload.Topic, payload.ScheduleID))
		envelope(w, map[string]interface{}{
			"id": f.issue(), "scheduleId": payload.ScheduleID, "topic": payload.Topic,
			"dayOfWeek": "MONDAY", "startTime": "08:00", "endTime": "09:30",
		})
	})

	return mux
}

func (f *fakePlatform) record(line string) {
	f.mu.Lock()
	f.requests = append(f.requests, line)
	f.mu.Unlock()
}

func (f *fakePlatform) issue() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func setupTestServer(upstreamURL string) *httptest.Server {
	client := platform.NewClient(upstreamURL, nil, nil)
	sessions := draft.NewManager()
	handlers.Init(sessions, client, flush.New(client, nil))

	gin.SetMode(gin.TestMode)
	r := gin.Default()

	api := r.Group("/api", AuthMiddlewareTest())
	{
		api.POST("/sessions", handlers.CreateSessionHandler)
		api.GET("/sessions/:id", handlers.GetSessionHandler)
		api.DELETE("/sessions/:id", handlers.DeleteSessionHandler)
		api.GET("/sessions/:id/schedules", handlers.ListSchedulesHandler)
		api.POST("/sessions/:id/schedules", handlers.AddScheduleHandler)
		api.PUT("/sessions/:id/schedules/:sid", handlers.UpdateScheduleHandler)
		api.DELETE("/sessions/:id/schedules/:sid", handlers.RemoveScheduleHandler)
		api.POST("/sessions/:id/schedules/:sid/activities", handlers.AddActivityHandler)
		api.GET("/sessions/:id/schedules/:sid/activities", handlers.ListActivitiesHandler)
		api.DELETE("/sessions/:id/activities/:aid", handlers.RemoveActivityHandler)
		api.GET("/sessions/:id/grid", handlers.GetGridHandler)
		api.POST("/sessions/:id/week/next", handlers.NextWeekHandler)
		api.POST("/sessions/:id/week/prev", handlers.PrevWeekHandler)
		api.PUT("/sessions/:id/week", handlers.SetWeekHandler)
		api.POST("/sessions/:id/flush", handlers.FlushSessionHandler)
	}

	return httptest.NewServer(r)
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-UserID", "1")

	res, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer res.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(res.Body).Decode(&decoded)
	return res, decoded
}

func TestClassCreationWizardFlow(t *testing.T) {
	upstream := &fakePlatform{}
	upstreamSrv := httptest.NewServer(upstream.handler())
	defer upstreamSrv.Close()

	ts := setupTestServer(upstreamSrv.URL)
	defer ts.Close()

	// 1. Открываем черновую сессию.
	res, session := doJSON(t, "POST", ts.URL+"/api/sessions", map[string]interface{}{"mode": "draft"})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Сессия должна открыться")
	sessionID := session["session_id"].(string)
	log.Println("Сессия открыта:", sessionID)

	base := ts.URL + "/api/sessions/" + sessionID

	// 2. Добавляем расписание первой недели.
	res, sched := doJSON(t, "POST", base+"/schedules", map[string]interface{}{"week_number": 1, "note": "адаптация"})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Расписание недели 1 должно добавиться")
	schedID := sched["id"].(map[string]interface{})
	assert.Equal(t, true, schedID["draft"], "До отправки расписание живет с черновым ID")

	// 3. Дубликат недели отклоняется слоем над хранилищем.
	res, dup := doJSON(t, "POST", base+"/schedules", map[string]interface{}{"week_number": 1})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Повтор недели 1 должен быть отклонен")
	assert.Equal(t, "DUPLICATE_WEEK", dup["code"])

	// 4. Добавляем активность; пустая тема отклоняется без изменения черновика.
	sidPath := fmt.Sprintf("%s/schedules/draft-%v/activities", base, int64(schedID["value"].(float64)))
	res, _ = doJSON(t, "POST", sidPath, map[string]interface{}{
		"topic": "Математика", "day_of_week": "MONDAY", "start_time": "08:00",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Активность должна добавиться")

	res, bad := doJSON(t, "POST", sidPath, map[string]interface{}{
		"topic": "  ", "day_of_week": "MONDAY", "start_time": "09:30",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Пустая тема — ошибка валидации")
	assert.Equal(t, "VALIDATION_ERROR", bad["code"])

	// 5. Сетка: Математика лежит в ячейке MONDAY × Утро.
	res, gridResp := doJSON(t, "GET", base+"/grid", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	gridData := gridResp["grid"].(map[string]interface{})
	days := gridData["days"].([]interface{})
	monday := days[0].(map[string]interface{})
	assert.Equal(t, "MONDAY", monday["day"])
	cells := monday["cells"].([]interface{})
	firstCell := cells[0].(map[string]interface{})
	acts := firstCell["activities"].([]interface{})
	assert.Len(t, acts, 1, "Математика должна лежать в первом слоте понедельника")

	// 6. Навигация: вперед (ограничено max+1), назад (не ниже 1).
	res, week := doJSON(t, "POST", base+"/week/next", nil)
	assert.Equal(t, float64(2), week["current_week"], "Переход на следующую (еще пустую) неделю разрешен")
	res, week = doJSON(t, "POST", base+"/week/next", nil)
	assert.Equal(t, float64(2), week["current_week"], "Выше max(недель)+1 навигация не уходит")
	res, week = doJSON(t, "POST", base+"/week/prev", nil)
	res, week = doJSON(t, "POST", base+"/week/prev", nil)
	assert.Equal(t, float64(1), week["current_week"], "Ниже первой недели навигация не уходит")

	// 7. Отправка черновика: класс, расписание, активность создаются на платформе.
	res, flushResp := doJSON(t, "POST", base+"/flush", map[string]interface{}{"name": "Солнышко"})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Отправка черновика должна пройти")
	assert.Equal(t, "ok", flushResp["outcome"], "Полный успех — outcome ok")

	upstream.mu.Lock()
	requests := append([]string{}, upstream.requests...)
	upstream.mu.Unlock()
	assert.Equal(t, []string{
		"POST /classes",
		"POST /schedules w1",
		"POST /activities Математика->2",
	}, requests, "Порядок вызовов: класс, затем расписания, затем активности с переписанным ID")

	// 8. После отправки сессия закрыта.
	res, _ = doJSON(t, "GET", base, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, "Сессия после flush удаляется")
}

func TestFlushWithoutActivitiesMakesNoCalls(t *testing.T) {
	upstream := &fakePlatform{}
	upstreamSrv := httptest.NewServer(upstream.handler())
	defer upstreamSrv.Close()

	ts := setupTestServer(upstreamSrv.URL)
	defer ts.Close()

	_, session := doJSON(t, "POST", ts.URL+"/api/sessions", map[string]interface{}{"mode": "draft"})
	base := ts.URL + "/api/sessions/" + session["session_id"].(string)

	doJSON(t, "POST", base+"/schedules", map[string]interface{}{"week_number": 1})

	res, errResp := doJSON(t, "POST", base+"/flush", map[string]interface{}{"name": "Солнышко"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "PRECONDITION_FAILED", errResp["code"], "Без активностей отправка не начинается")

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.Empty(t, upstream.requests, "Ни одного вызова платформы быть не должно")
}
