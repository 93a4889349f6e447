package flush

import (
	"context"
	"log"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"
	"kinder_admin/internal/platform"
)

// Event — событие хода отправки, транслируемое подписчикам сессии.
type Event struct {
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Notifier рассылает события flush подписчикам сессии (реализуется ws-хабом).
type Notifier interface {
	Notify(sessionID string, event Event)
}

// ScheduleFailure — неуспех создания одного расписания.
type ScheduleFailure struct {
	WeekNumber int    `json:"week_number"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

// ActivityFailure — неуспех создания/обновления одной активности внутри
// успешно созданного расписания.
type ActivityFailure struct {
	Topic      string `json:"topic"`
	WeekNumber int    `json:"week_number"`
	Message    string `json:"message"`
}

// Report — итог отправки черновика. Частичный успех сообщается как частичный:
// класс и успешно созданные расписания/активности не откатываются.
type Report struct {
	ClassID            int64             `json:"class_id"`
	CreatedSchedules   int               `json:"created_schedules"`
	CreatedActivities  int               `json:"created_activities"`
	FailedSchedules    []ScheduleFailure `json:"failed_schedules,omitempty"`
	FailedActivities   []ActivityFailure `json:"failed_activities,omitempty"`
	SkippedActivities  int               `json:"skipped_activities"`
}

// Partial сообщает, была ли отправка лишь частично успешной.
func (r *Report) Partial() bool {
	return len(r.FailedSchedules) > 0 || len(r.FailedActivities) > 0
}

// Outcome — строковый итог для событий и ответа клиенту.
func (r *Report) Outcome() string {
	if r.Partial() {
		return "partial"
	}
	return "ok"
}

// Orchestrator превращает содержимое хранилища черновика в последовательность
// вызовов платформы, переписывая черновые ID в серверные. Вызовы идут строго
// последовательно: создание активности требует уже известного серверного ID
// её расписания. Контекст берётся из HTTP-запроса, так что разрыв соединения
// прерывает отправку между вызовами.
type Orchestrator struct {
	api    platform.API
	notify Notifier
}

// New создает оркестратор. notify может быть nil.
func New(api platform.API, notify Notifier) *Orchestrator {
	return &Orchestrator{api: api, notify: notify}
}

func (o *Orchestrator) emit(sessionID, eventType string, data map[string]interface{}) {
	if o.notify == nil {
		return
	}
	o.notify.Notify(sessionID, Event{EventType: eventType, Data: data})
}

// FlushDraft материализует черновик: создает класс, затем расписания в порядке
// добавления, затем активности успешно созданных расписаний.
//
// Политика ошибок:
//   - нет ни одного расписания или ни одной активности — Precondition,
//     ни одного сетевого вызова не выполняется;
//   - ошибка создания класса фатальна, дальше ничего не отправляется;
//   - ошибка создания расписания не фатальна: неделя попадает в отчет,
//     цикл продолжается, активности этой недели никогда не отправляются;
//   - ошибка создания активности попадает в отчет отдельно.
//
// Повторный вызов после сбоя опирается на проверки дубликатов на платформе
// (уже созданные сущности откажут сами) — это слабая идемпотентность,
// известное ограничение.
func (o *Orchestrator) FlushDraft(ctx context.Context, sessionID string, store *draft.Store, class platform.ClassPayload) (*Report, error) {
	schedules := store.Schedules()
	activities := store.Activities()

	if len(schedules) == 0 {
		return nil, errs.New(errs.Precondition, "нельзя создать класс без единого расписания")
	}
	hasActivity := false
	scheduleIDs := make(map[models.ID]bool, len(schedules))
	for _, sched := range schedules {
		scheduleIDs[sched.ID] = true
	}
	for _, act := range activities {
		if scheduleIDs[act.ScheduleID] {
			hasActivity = true
			break
		}
	}
	if !hasActivity {
		return nil, errs.New(errs.Precondition, "нельзя создать класс без единой активности")
	}

	created, err := o.api.CreateClass(ctx, class)
	if err != nil {
		return nil, err
	}
	report := &Report{ClassID: created.ID.Value}
	log.Printf("Класс %q создан, ID: %d", class.Name, report.ClassID)

	// Создание расписаний: черновой ID -> серверный.
	realScheduleID := make(map[models.ID]int64, len(schedules))
	failedSchedule := make(map[models.ID]bool)
	for _, sched := range schedules {
		result, err := o.api.CreateSchedule(ctx, platform.SchedulePayload{
			WeekNumber: sched.WeekNumber,
			Note:       sched.Note,
			ClassID:    report.ClassID,
		})
		if err != nil {
			failedSchedule[sched.ID] = true
			report.FailedSchedules = append(report.FailedSchedules, ScheduleFailure{
				WeekNumber: sched.WeekNumber,
				Message:    errs.MessageOf(err),
				Code:       string(errs.KindOf(err)),
			})
			log.Printf("Не удалось создать расписание недели %d: %v", sched.WeekNumber, err)
			o.emit(sessionID, "schedule_failed", map[string]interface{}{
				"week_number": sched.WeekNumber,
				"message":     errs.MessageOf(err),
			})
			continue
		}
		realScheduleID[sched.ID] = result.ID.Value
		report.CreatedSchedules++
		o.emit(sessionID, "schedule_created", map[string]interface{}{
			"week_number": sched.WeekNumber,
			"schedule_id": result.ID.Value,
		})
	}

	weekOf := make(map[models.ID]int, len(schedules))
	for _, sched := range schedules {
		weekOf[sched.ID] = sched.WeekNumber
	}

	// Создание активностей. Активности расписаний, которые создать не удалось,
	// пропускаются и не отправляются никогда.
	for _, act := range activities {
		realID, ok := realScheduleID[act.ScheduleID]
		if !ok {
			if failedSchedule[act.ScheduleID] {
				report.SkippedActivities++
			}
			continue
		}

		payload := platform.ActivityPayload{
			Topic:       act.Topic,
			Description: act.Description,
			DayOfWeek:   act.DayOfWeek,
			StartTime:   act.StartTime,
			EndTime:     o.resolveEnd(ctx, act),
			ScheduleID:  realID,
			LessonID:    act.LessonID,
		}
		if _, err := o.api.CreateActivity(ctx, payload); err != nil {
			report.FailedActivities = append(report.FailedActivities, ActivityFailure{
				Topic:      act.Topic,
				WeekNumber: weekOf[act.ScheduleID],
				Message:    errs.MessageOf(err),
			})
			log.Printf("Не удалось создать активность %q: %v", act.Topic, err)
			o.emit(sessionID, "activity_failed", map[string]interface{}{
				"topic":   act.Topic,
				"message": errs.MessageOf(err),
			})
			continue
		}
		report.CreatedActivities++
		o.emit(sessionID, "activity_created", map[string]interface{}{
			"topic": act.Topic,
		})
	}

	o.emit(sessionID, "flush_finished", map[string]interface{}{
		"class_id": report.ClassID,
		"outcome":  report.Outcome(),
	})
	return report, nil
}

// EditReport — итог сохранения правок одного расписания.
type EditReport struct {
	Schedule          models.Schedule   `json:"schedule"`
	CreatedSchedule   bool              `json:"created_schedule,omitempty"`
	UpdatedActivities int               `json:"updated_activities"`
	CreatedActivities int               `json:"created_activities"`
	FailedActivities  []ActivityFailure `json:"failed_activities,omitempty"`
}

// Partial сообщает о частичном успехе сохранения.
func (r *EditReport) Partial() bool {
	return len(r.FailedActivities) > 0
}

// SaveScheduleEdit сохраняет одно расписание сессии правки на платформе.
// Расписание с черновым ID создается (классу сессии), с серверным — обновляется;
// затем по каждой активности расписания выполняется update (серверный ID) или
// create (черновой ID). Серверные ID созданных сущностей подменяют черновые
// прямо в хранилище, поэтому повторное сохранение ничего не создает заново.
//
// Отсутствие активности в хранилище НЕ означает её удаление:
// оркестратор никогда не выводит намерение удалить из факта отсутствия.
// Удаления — только явные, инициированные пользователем операции.
func (o *Orchestrator) SaveScheduleEdit(ctx context.Context, sessionID string, store *draft.Store, scheduleID models.ID, patch platform.SchedulePatch) (*EditReport, error) {
	report := &EditReport{}

	if scheduleID.IsDraft() {
		classID := store.ClassID()
		if classID.IsZero() {
			return nil, errs.New(errs.Precondition, "нельзя сохранить расписание: класс ещё не создан")
		}
		created, err := o.api.CreateSchedule(ctx, platform.SchedulePayload{
			WeekNumber: patch.WeekNumber,
			Note:       patch.Note,
			ClassID:    classID.Value,
		})
		if err != nil {
			return nil, err
		}
		if err := store.AdoptScheduleID(scheduleID, created.ID); err != nil {
			return nil, err
		}
		log.Printf("Расписание недели %d создано для класса %d, ID: %d", created.WeekNumber, classID.Value, created.ID.Value)
		report.Schedule = created
		report.CreatedSchedule = true
	} else {
		updated, err := o.api.UpdateSchedule(ctx, scheduleID.Value, patch)
		if err != nil {
			return nil, err
		}
		report.Schedule = updated
	}
	realScheduleID := report.Schedule.ID

	for _, act := range store.ListBySchedule(realScheduleID) {
		var opErr error
		if act.ID.IsDraft() {
			var created models.Activity
			created, opErr = o.api.CreateActivity(ctx, platform.ActivityPayload{
				Topic:       act.Topic,
				Description: act.Description,
				DayOfWeek:   act.DayOfWeek,
				StartTime:   act.StartTime,
				EndTime:     o.resolveEnd(ctx, act),
				ScheduleID:  realScheduleID.Value,
				LessonID:    act.LessonID,
			})
			if opErr == nil {
				report.CreatedActivities++
				if adoptErr := store.AdoptActivityID(act.ID, created.ID); adoptErr != nil {
					log.Printf("Не удалось подменить черновой ID активности %s: %v", act.ID, adoptErr)
				}
			}
		} else {
			_, opErr = o.api.UpdateActivity(ctx, act.ID.Value, platform.ActivityPatch{
				Topic:       act.Topic,
				Description: act.Description,
				DayOfWeek:   act.DayOfWeek,
				StartTime:   act.StartTime,
				EndTime:     o.resolveEnd(ctx, act),
				LessonID:    act.LessonID,
			})
			if opErr == nil {
				report.UpdatedActivities++
			}
		}
		if opErr != nil {
			report.FailedActivities = append(report.FailedActivities, ActivityFailure{
				Topic:      act.Topic,
				WeekNumber: report.Schedule.WeekNumber,
				Message:    errs.MessageOf(opErr),
			})
			log.Printf("Не удалось сохранить активность %q: %v", act.Topic, opErr)
		}
	}

	o.emit(sessionID, "schedule_saved", map[string]interface{}{
		"schedule_id": realScheduleID.Value,
		"outcome": func() string {
			if report.Partial() {
				return "partial"
			}
			return "ok"
		}(),
	})
	return report, nil
}

// resolveEnd вычисляет время окончания для отправки: явно заданное, из длительности
// привязанного занятия, либо 90 минут по умолчанию. Недоступность справочника
// занятий не валит отправку — берется длительность по умолчанию.
func (o *Orchestrator) resolveEnd(ctx context.Context, act models.Activity) models.TimeOfDay {
	if act.EndTime != nil {
		return *act.EndTime
	}
	if act.LessonID != nil {
		lesson, err := o.api.GetLesson(ctx, *act.LessonID)
		if err == nil {
			return act.EffectiveEnd(&lesson)
		}
		log.Printf("Не удалось получить занятие %d, берем длительность по умолчанию: %v", *act.LessonID, err)
	}
	return act.EffectiveEnd(nil)
}
