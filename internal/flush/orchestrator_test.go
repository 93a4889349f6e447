package flush

import (
	"context"
	"testing"
	"time"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"
	"kinder_admin/internal/platform"

	"github.com/stretchr/testify/assert"
)

// fakeAPI записывает все вызовы платформы; отдельные операции можно заставить падать.
type fakeAPI struct {
	calls []string

	failClass     bool
	failWeeks     map[int]bool
	failTopics    map[string]bool
	failLessons   bool
	nextID        int64
	createdActs   []platform.ActivityPayload
	createdScheds []platform.SchedulePayload
	updatedActs   map[int64]platform.ActivityPatch
	updatedScheds map[int64]platform.SchedulePatch
	lessons       map[int64]models.Lesson
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		failWeeks:     map[int]bool{},
		failTopics:    map[string]bool{},
		updatedActs:   map[int64]platform.ActivityPatch{},
		updatedScheds: map[int64]platform.SchedulePatch{},
		lessons:       map[int64]models.Lesson{},
	}
}

func (f *fakeAPI) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) CreateClass(_ context.Context, p platform.ClassPayload) (models.Class, error) {
	f.record("createClass")
	if f.failClass {
		return models.Class{}, errs.New(errs.Backend, "платформа недоступна")
	}
	f.nextID++
	return models.Class{ID: models.RealID(f.nextID), Name: p.Name}, nil
}

func (f *fakeAPI) CreateSchedule(_ context.Context, p platform.SchedulePayload) (models.Schedule, error) {
	f.record("createSchedule")
	if f.failWeeks[p.WeekNumber] {
		return models.Schedule{}, errs.New(errs.DuplicateWeek, "номер недели уже занят в этом классе")
	}
	f.nextID++
	f.createdScheds = append(f.createdScheds, p)
	return models.Schedule{
		ID:         models.RealID(f.nextID),
		ClassID:    models.RealID(p.ClassID),
		WeekNumber: p.WeekNumber,
		Note:       p.Note,
	}, nil
}

func (f *fakeAPI) UpdateSchedule(_ context.Context, id int64, p platform.SchedulePatch) (models.Schedule, error) {
	f.record("updateSchedule")
	f.updatedScheds[id] = p
	return models.Schedule{ID: models.RealID(id), WeekNumber: p.WeekNumber, Note: p.Note}, nil
}

func (f *fakeAPI) DeleteSchedule(_ context.Context, id int64) error {
	f.record("deleteSchedule")
	return nil
}

func (f *fakeAPI) CreateActivity(_ context.Context, p platform.ActivityPayload) (models.Activity, error) {
	f.record("createActivity")
	if f.failTopics[p.Topic] {
		return models.Activity{}, errs.New(errs.Backend, "платформа отклонила активность")
	}
	f.nextID++
	f.createdActs = append(f.createdActs, p)
	return models.Activity{ID: models.RealID(f.nextID), ScheduleID: models.RealID(p.ScheduleID), Topic: p.Topic}, nil
}

func (f *fakeAPI) UpdateActivity(_ context.Context, id int64, p platform.ActivityPatch) (models.Activity, error) {
	f.record("updateActivity")
	f.updatedActs[id] = p
	return models.Activity{ID: models.RealID(id), Topic: p.Topic}, nil
}

func (f *fakeAPI) DeleteActivity(_ context.Context, id int64) error {
	f.record("deleteActivity")
	return nil
}

func (f *fakeAPI) ActivityDeletionImpact(_ context.Context, id int64) (platform.DeletionImpact, error) {
	f.record("deletionImpact")
	return platform.DeletionImpact{}, nil
}

func (f *fakeAPI) GetLesson(_ context.Context, id int64) (models.Lesson, error) {
	f.record("getLesson")
	if f.failLessons {
		return models.Lesson{}, errs.New(errs.Backend, "справочник занятий недоступен")
	}
	lesson, ok := f.lessons[id]
	if !ok {
		return models.Lesson{}, errs.New(errs.Backend, "занятие не найдено")
	}
	return lesson, nil
}

func (f *fakeAPI) ClassSchedules(_ context.Context, classID int64) ([]models.Schedule, error) {
	f.record("classSchedules")
	return nil, nil
}

func (f *fakeAPI) ScheduleActivities(_ context.Context, scheduleID int64) ([]models.Activity, error) {
	f.record("scheduleActivities")
	return nil, nil
}

func mustTime(t *testing.T, s string) models.TimeOfDay {
	parsed, err := models.ParseTimeOfDay(s)
	assert.NoError(t, err)
	return parsed
}

func buildDraft(t *testing.T) (*draft.Store, models.Schedule, models.Schedule) {
	store := draft.NewStore()
	w1, err := store.AddSchedule(1, "первая неделя")
	assert.NoError(t, err)
	w2, err := store.AddSchedule(2, "вторая неделя")
	assert.NoError(t, err)

	_, err = store.AddActivity(w1.ID, models.Activity{Topic: "Математика", DayOfWeek: models.Monday, StartTime: mustTime(t, "08:00")})
	assert.NoError(t, err)
	_, err = store.AddActivity(w2.ID, models.Activity{Topic: "Музыка", DayOfWeek: models.Tuesday, StartTime: mustTime(t, "09:30")})
	assert.NoError(t, err)
	return store, w1, w2
}

func TestFlushWithoutSchedulesFailsFast(t *testing.T) {
	api := newFakeAPI()
	o := New(api, nil)

	_, err := o.FlushDraft(context.Background(), "s1", draft.NewStore(), platform.ClassPayload{Name: "Солнышко"})
	assert.True(t, errs.IsKind(err, errs.Precondition), "Без расписаний — PRECONDITION_FAILED")
	assert.Empty(t, api.calls, "Ни одного сетевого вызова быть не должно")
}

func TestFlushWithoutActivitiesFailsFast(t *testing.T) {
	api := newFakeAPI()
	o := New(api, nil)

	store := draft.NewStore()
	store.AddSchedule(1, "")

	_, err := o.FlushDraft(context.Background(), "s1", store, platform.ClassPayload{Name: "Солнышко"})
	assert.True(t, errs.IsKind(err, errs.Precondition), "Без активностей — PRECONDITION_FAILED")
	assert.Empty(t, api.calls, "Ни одного сетевого вызова быть не должно")
}

func TestFlushAbortsWhenClassCreationFails(t *testing.T) {
	api := newFakeAPI()
	api.failClass = true
	o := New(api, nil)

	store, _, _ := buildDraft(t)
	_, err := o.FlushDraft(context.Background(), "s1", store, platform.ClassPayload{Name: "Солнышко"})

	assert.True(t, errs.IsKind(err, errs.Backend), "Ошибка создания класса фатальна")
	assert.Equal(t, []string{"createClass"}, api.calls, "После неудачи с классом ничего больше не отправляется")
}

func TestFlushRewritesDraftScheduleIDs(t *testing.T) {
	api := newFakeAPI()
	o := New(api, nil)

	store, _, _ := buildDraft(t)
	report, err := o.FlushDraft(context.Background(), "s1", store, platform.ClassPayload{Name: "Солнышко"})
	assert.NoError(t, err)

	assert.Equal(t, "ok", report.Outcome())
	assert.Equal(t, 2, report.CreatedSchedules)
	assert.Equal(t, 2, report.CreatedActivities)
	for _, payload := range api.createdActs {
		assert.Greater(t, payload.ScheduleID, int64(0), "Активность должна уйти с серверным ID расписания")
	}
}

func TestFlushIsBestEffortPerSchedule(t *testing.T) {
	api := newFakeAPI()
	api.failWeeks[2] = true
	o := New(api, nil)

	store, _, _ := buildDraft(t)
	report, err := o.FlushDraft(context.Background(), "s1", store, platform.ClassPayload{Name: "Солнышко"})
	assert.NoError(t, err, "Неудача одной недели не фатальна для всей отправки")

	assert.Equal(t, "partial", report.Outcome(), "Частичный успех сообщается как partial")
	assert.Equal(t, 1, report.CreatedSchedules, "W1 создана")
	assert.Len(t, report.FailedSchedules, 1, "W2 попала в отчет об ошибках")
	assert.Equal(t, 2, report.FailedSchedules[0].WeekNumber)

	assert.Equal(t, 1, report.CreatedActivities, "Активности W1 созданы")
	assert.Equal(t, 1, report.SkippedActivities, "Активности W2 пропущены")
	for _, payload := range api.createdActs {
		assert.NotEqual(t, "Музыка", payload.Topic, "Активность упавшей недели не должна отправляться никогда")
	}
}

func TestFlushReportsActivityFailuresIndividually(t *testing.T) {
	api := newFakeAPI()
	api.failTopics["Музыка"] = true
	o := New(api, nil)

	store, _, _ := buildDraft(t)
	report, err := o.FlushDraft(context.Background(), "s1", store, platform.ClassPayload{Name: "Солнышко"})
	assert.NoError(t, err)

	assert.Equal(t, "partial", report.Outcome())
	assert.Len(t, report.FailedActivities, 1)
	assert.Equal(t, "Музыка", report.FailedActivities[0].Topic)
	assert.Equal(t, 2, report.FailedActivities[0].WeekNumber)
}

func TestFlushDerivesEndTimeFromLesson(t *testing.T) {
	api := newFakeAPI()
	api.lessons[5] = models.Lesson{ID: 5, Name: "Логика", Duration: 45 * time.Minute}
	o := New(api, nil)

	store := draft.NewStore()
	sched, _ := store.AddSchedule(1, "")
	lessonID := int64(5)
	store.AddActivity(sched.ID, models.Activity{
		Topic:     "Логика",
		DayOfWeek: models.Monday,
		StartTime: mustTime(t, "10:00"),
		LessonID:  &lessonID,
	})
	store.AddActivity(sched.ID, models.Activity{
		Topic:     "Прогулка",
		DayOfWeek: models.Monday,
		StartTime: mustTime(t, "15:30"),
	})

	_, err := o.FlushDraft(context.Background(), "s1", store, platform.ClassPayload{Name: "Солнышко"})
	assert.NoError(t, err)

	assert.Equal(t, "10:45", api.createdActs[0].EndTime.String(), "Окончание выводится из длительности занятия")
	assert.Equal(t, "17:00", api.createdActs[1].EndTime.String(), "Без занятия — 90 минут по умолчанию")
}

// buildEditStore — сессия правки класса 3: расписание 7 с двумя серверными
// активностями (100, 101).
func buildEditStore(t *testing.T) (*draft.Store, models.ID) {
	store := draft.NewEditStore(3)
	schedID := models.RealID(7)
	err := store.Seed(
		[]models.Schedule{{ID: schedID, ClassID: models.RealID(3), WeekNumber: 1}},
		[]models.Activity{
			{ID: models.RealID(100), ScheduleID: schedID, Topic: "Математика", DayOfWeek: models.Monday, StartTime: mustTime(t, "08:00")},
			{ID: models.RealID(101), ScheduleID: schedID, Topic: "Музыка", DayOfWeek: models.Tuesday, StartTime: mustTime(t, "09:30")},
		},
	)
	assert.NoError(t, err)
	return store, schedID
}

func TestSaveScheduleEditNeverDeletes(t *testing.T) {
	api := newFakeAPI()
	o := New(api, nil)

	// Активность 101 удалена локально, взамен добавлена черновая: сохранение
	// обновляет 100 и создает новую, но про 101 ничего не выводит.
	store, schedID := buildEditStore(t)
	assert.NoError(t, store.RemoveActivity(models.RealID(101)))
	_, err := store.AddActivity(schedID, models.Activity{Topic: "Лепка", DayOfWeek: models.Wednesday, StartTime: mustTime(t, "14:00")})
	assert.NoError(t, err)

	report, err := o.SaveScheduleEdit(context.Background(), "s1", store, schedID,
		platform.SchedulePatch{WeekNumber: 1, Note: "обновлено"})
	assert.NoError(t, err)

	assert.Equal(t, 1, report.UpdatedActivities, "Активность с серверным ID обновляется")
	assert.Equal(t, 1, report.CreatedActivities, "Активность с черновым ID создается")
	assert.Contains(t, api.updatedActs, int64(100))

	for _, call := range api.calls {
		assert.NotEqual(t, "deleteActivity", call, "Отсутствие активности в хранилище не означает её удаление")
		assert.NotEqual(t, "deleteSchedule", call)
	}
	assert.Contains(t, api.updatedScheds, int64(7))
}

func TestSaveScheduleEditAdoptsCreatedActivityIDs(t *testing.T) {
	api := newFakeAPI()
	o := New(api, nil)

	store, schedID := buildEditStore(t)
	fresh, err := store.AddActivity(schedID, models.Activity{Topic: "Лепка", DayOfWeek: models.Wednesday, StartTime: mustTime(t, "14:00")})
	assert.NoError(t, err)

	_, err = o.SaveScheduleEdit(context.Background(), "s1", store, schedID, platform.SchedulePatch{WeekNumber: 1})
	assert.NoError(t, err)

	_, found := store.ActivityByID(fresh.ID)
	assert.False(t, found, "Черновой ID после сохранения должен исчезнуть из хранилища")

	// Повторное сохранение не создает новую копию: активность уже серверная.
	report, err := o.SaveScheduleEdit(context.Background(), "s1", store, schedID, platform.SchedulePatch{WeekNumber: 1})
	assert.NoError(t, err)
	assert.Equal(t, 0, report.CreatedActivities)
	assert.Equal(t, 3, report.UpdatedActivities)

	creates := 0
	for _, call := range api.calls {
		if call == "createActivity" {
			creates++
		}
	}
	assert.Equal(t, 1, creates, "Каждая новая активность создается ровно один раз")
}

func TestSaveScheduleEditCreatesDraftSchedule(t *testing.T) {
	api := newFakeAPI()
	o := New(api, nil)

	// Новая неделя, заведенная в сессии правки: расписание живет с черновым ID.
	store, _ := buildEditStore(t)
	sched, err := store.AddSchedule(2, "новая неделя")
	assert.NoError(t, err)
	assert.True(t, sched.ID.IsDraft())
	_, err = store.AddActivity(sched.ID, models.Activity{Topic: "Прогулка", DayOfWeek: models.Friday, StartTime: mustTime(t, "15:30")})
	assert.NoError(t, err)

	report, err := o.SaveScheduleEdit(context.Background(), "s1", store, sched.ID,
		platform.SchedulePatch{WeekNumber: 2, Note: "новая неделя"})
	assert.NoError(t, err)

	assert.True(t, report.CreatedSchedule, "Расписание с черновым ID создается, а не обновляется")
	assert.False(t, report.Schedule.ID.IsDraft(), "В отчете — серверный ID")
	assert.Len(t, api.createdScheds, 1)
	assert.Equal(t, int64(3), api.createdScheds[0].ClassID, "Расписание создается для класса сессии")
	assert.Equal(t, 2, api.createdScheds[0].WeekNumber)

	_, found := store.ScheduleByID(sched.ID)
	assert.False(t, found, "Черновой ID расписания подменен серверным")
	saved, found := store.ScheduleByID(report.Schedule.ID)
	assert.True(t, found)
	assert.Equal(t, 2, saved.WeekNumber)

	assert.Equal(t, 1, report.CreatedActivities)
	assert.Equal(t, report.Schedule.ID.Value, api.createdActs[0].ScheduleID, "Активность уходит с серверным ID нового расписания")

	for _, act := range store.ListBySchedule(report.Schedule.ID) {
		assert.False(t, act.ID.IsDraft(), "Активности тоже получили серверные ID")
	}
}

func TestSaveScheduleEditPropagatesDuplicateWeek(t *testing.T) {
	// Конфликт недели при обновлении эмулируем отдельным фейком.
	conflict := &conflictAPI{fakeAPI: newFakeAPI()}
	o := New(conflict, nil)

	store, schedID := buildEditStore(t)
	_, err := o.SaveScheduleEdit(context.Background(), "s1", store, schedID, platform.SchedulePatch{WeekNumber: 3})
	assert.True(t, errs.IsKind(err, errs.DuplicateWeek), "Конфликт недели от платформы доходит до вызывающего")
}

type conflictAPI struct {
	*fakeAPI
}

func (c *conflictAPI) UpdateSchedule(_ context.Context, id int64, p platform.SchedulePatch) (models.Schedule, error) {
	return models.Schedule{}, errs.New(errs.DuplicateWeek, "номер недели уже занят в этом классе")
}
