package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"
)

// API — контракт платформы детского сада, который потребляет оркестратор и хендлеры.
// Реализуется HTTP-клиентом (Client) и фейком в тестах.
type API interface {
	CreateClass(ctx context.Context, p ClassPayload) (models.Class, error)
	CreateSchedule(ctx context.Context, p SchedulePayload) (models.Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, p SchedulePatch) (models.Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
	CreateActivity(ctx context.Context, p ActivityPayload) (models.Activity, error)
	UpdateActivity(ctx context.Context, id int64, p ActivityPatch) (models.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error
	ActivityDeletionImpact(ctx context.Context, id int64) (DeletionImpact, error)
	GetLesson(ctx context.Context, id int64) (models.Lesson, error)
	ClassSchedules(ctx context.Context, classID int64) ([]models.Schedule, error)
	ScheduleActivities(ctx context.Context, scheduleID int64) ([]models.Activity, error)
}

// ClassPayload — данные создания класса.
type ClassPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TeacherID   *int64 `json:"teacherId,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
}

// SchedulePayload — данные создания расписания.
type SchedulePayload struct {
	WeekNumber int    `json:"weekNumber"`
	Note       string `json:"note,omitempty"`
	ClassID    int64  `json:"classId"`
}

// SchedulePatch — обновление расписания.
type SchedulePatch struct {
	WeekNumber int    `json:"weekNumber"`
	Note       string `json:"note,omitempty"`
}

// ActivityPayload — данные создания активности.
type ActivityPayload struct {
	Topic       string           `json:"topic"`
	Description string           `json:"description,omitempty"`
	DayOfWeek   models.DayOfWeek `json:"dayOfWeek"`
	StartTime   models.TimeOfDay `json:"startTime"`
	EndTime     models.TimeOfDay `json:"endTime"`
	ScheduleID  int64            `json:"scheduleId"`
	LessonID    *int64           `json:"lessonId,omitempty"`
}

// ActivityPatch — обновление активности.
type ActivityPatch struct {
	Topic       string           `json:"topic"`
	Description string           `json:"description,omitempty"`
	DayOfWeek   models.DayOfWeek `json:"dayOfWeek"`
	StartTime   models.TimeOfDay `json:"startTime"`
	EndTime     models.TimeOfDay `json:"endTime"`
	LessonID    *int64           `json:"lessonId,omitempty"`
}

// DeletionImpact — справка платформы о последствиях удаления активности.
// Информационная: на поведение хранилища не влияет, используется для
// предупреждения пользователя перед удалением.
type DeletionImpact struct {
	ActivityTopic              string `json:"activityTopic"`
	HasScheduleImpact          bool   `json:"hasScheduleImpact"`
	WeekNumber                 int    `json:"weekNumber"`
	ClassName                  string `json:"className"`
	TotalActivitiesInSchedule  int    `json:"totalActivitiesInSchedule"`
	IsLastActivityInSchedule   bool   `json:"isLastActivityInSchedule"`
}

// envelope — единый конверт ответов платформы.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client — HTTP-клиент платформы. Конверт {success, data, message} разбирается
// ровно один раз здесь: наружу уходят либо типизированные данные, либо errs.*.
// Транспортная ошибка и ответ success:false равнозначны — операция не выполнена.
type Client struct {
	baseURL string
	http    *http.Client
	lessons *LessonCache
}

// NewClient создает клиент платформы. lessons может быть nil — тогда занятия
// запрашиваются без кэша.
func NewClient(baseURL string, httpClient *http.Client, lessons *LessonCache) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		lessons: lessons,
	}
}

// do выполняет запрос и раскладывает конверт в out (out может быть nil).
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(errs.Backend, "не удалось сериализовать запрос", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(errs.Backend, "не удалось сформировать запрос к платформе", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(errs.Backend, "платформа недоступна", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errs.Wrap(errs.Backend, "не удалось разобрать ответ платформы", err)
	}

	if resp.StatusCode == http.StatusConflict {
		// Платформа сообщает конфликт номера недели статусом 409.
		msg := env.Message
		if msg == "" {
			msg = "номер недели уже занят в этом классе"
		}
		return errs.New(errs.DuplicateWeek, msg)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("платформа ответила ошибкой (HTTP %d)", resp.StatusCode)
		}
		return errs.New(errs.Backend, msg)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errs.Wrap(errs.Backend, "не удалось разобрать данные ответа платформы", err)
		}
	}
	return nil
}

// serverSchedule / serverActivity — проводные представления: платформа оперирует
// числовыми ID, внутри сервиса они оборачиваются в models.ID.
type serverSchedule struct {
	ID         int64  `json:"id"`
	ClassID    int64  `json:"classId"`
	WeekNumber int    `json:"weekNumber"`
	Note       string `json:"note"`
}

func (s serverSchedule) model() models.Schedule {
	return models.Schedule{
		ID:         models.RealID(s.ID),
		ClassID:    models.RealID(s.ClassID),
		WeekNumber: s.WeekNumber,
		Note:       s.Note,
	}
}

type serverActivity struct {
	ID          int64            `json:"id"`
	ScheduleID  int64            `json:"scheduleId"`
	Topic       string           `json:"topic"`
	Description string           `json:"description"`
	DayOfWeek   models.DayOfWeek `json:"dayOfWeek"`
	StartTime   models.TimeOfDay `json:"startTime"`
	EndTime     models.TimeOfDay `json:"endTime"`
	LessonID    *int64           `json:"lessonId"`
}

func (a serverActivity) model() models.Activity {
	act := models.Activity{
		ID:          models.RealID(a.ID),
		ScheduleID:  models.RealID(a.ScheduleID),
		Topic:       a.Topic,
		Description: a.Description,
		DayOfWeek:   a.DayOfWeek,
		StartTime:   a.StartTime,
		LessonID:    a.LessonID,
	}
	if !a.EndTime.IsZero() {
		end := a.EndTime
		act.EndTime = &end
	}
	return act
}

type serverClass struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeacherID   *int64 `json:"teacherId"`
	Capacity    int    `json:"capacity"`
}

func (c *Client) CreateClass(ctx context.Context, p ClassPayload) (models.Class, error) {
	var raw serverClass
	if err := c.do(ctx, http.MethodPost, "/classes", p, &raw); err != nil {
		return models.Class{}, err
	}
	return models.Class{
		ID:          models.RealID(raw.ID),
		Name:        raw.Name,
		Description: raw.Description,
		TeacherID:   raw.TeacherID,
		Capacity:    raw.Capacity,
	}, nil
}

func (c *Client) CreateSchedule(ctx context.Context, p SchedulePayload) (models.Schedule, error) {
	var raw serverSchedule
	if err := c.do(ctx, http.MethodPost, "/schedules", p, &raw); err != nil {
		return models.Schedule{}, err
	}
	return raw.model(), nil
}

func (c *Client) UpdateSchedule(ctx context.Context, id int64, p SchedulePatch) (models.Schedule, error) {
	var raw serverSchedule
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/schedules/%d", id), p, &raw); err != nil {
		return models.Schedule{}, err
	}
	return raw.model(), nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/schedules/%d", id), nil, nil)
}

func (c *Client) CreateActivity(ctx context.Context, p ActivityPayload) (models.Activity, error) {
	var raw serverActivity
	if err := c.do(ctx, http.MethodPost, "/activities", p, &raw); err != nil {
		return models.Activity{}, err
	}
	return raw.model(), nil
}

func (c *Client) UpdateActivity(ctx context.Context, id int64, p ActivityPatch) (models.Activity, error) {
	var raw serverActivity
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/activities/%d", id), p, &raw); err != nil {
		return models.Activity{}, err
	}
	return raw.model(), nil
}

func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/activities/%d", id), nil, nil)
}

func (c *Client) ActivityDeletionImpact(ctx context.Context, id int64) (DeletionImpact, error) {
	var impact DeletionImpact
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/activities/%d/deletion-impact", id), nil, &impact); err != nil {
		return DeletionImpact{}, err
	}
	return impact, nil
}

// GetLesson запрашивает занятие; результат кэшируется, если кэш настроен.
func (c *Client) GetLesson(ctx context.Context, id int64) (models.Lesson, error) {
	if c.lessons != nil {
		if lesson, ok := c.lessons.Get(ctx, id); ok {
			return lesson, nil
		}
	}

	var lesson models.Lesson
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lessons/%d", id), nil, &lesson); err != nil {
		return models.Lesson{}, err
	}

	if c.lessons != nil {
		c.lessons.Put(ctx, lesson)
	}
	return lesson, nil
}

func (c *Client) ClassSchedules(ctx context.Context, classID int64) ([]models.Schedule, error) {
	var raw []serverSchedule
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d/schedules", classID), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Schedule, 0, len(raw))
	for _, s := range raw {
		out = append(out, s.model())
	}
	return out, nil
}

func (c *Client) ScheduleActivities(ctx context.Context, scheduleID int64) ([]models.Activity, error) {
	var raw []serverActivity
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/schedules/%d/activities", scheduleID), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Activity, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.model())
	}
	return out, nil
}
