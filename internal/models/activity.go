package models

import "time"

// DefaultActivityDuration — длительность активности без привязанного занятия.
const DefaultActivityDuration = 90 * time.Minute

// Activity — одно событие в расписании: тема, день недели, время, опционально
// привязанное занятие (lesson) из каталога платформы.
type Activity struct {
	ID          ID         `json:"id"`
	ScheduleID  ID         `json:"schedule_id"`
	Topic       string     `json:"topic"`
	Description string     `json:"description,omitempty"`
	DayOfWeek   DayOfWeek  `json:"day_of_week"`
	StartTime   TimeOfDay  `json:"start_time"`
	EndTime     *TimeOfDay `json:"end_time,omitempty"` // nil — время окончания выводится из занятия
	LessonID    *int64     `json:"lesson_id,omitempty"`
}

// EffectiveEnd возвращает время окончания: заданное явно, выведенное из длительности
// занятия или, если занятия нет, StartTime + 90 минут.
func (a Activity) EffectiveEnd(lesson *Lesson) TimeOfDay {
	if a.EndTime != nil {
		return *a.EndTime
	}
	if lesson != nil && lesson.Duration > 0 {
		return a.StartTime.Add(lesson.Duration)
	}
	return a.StartTime.Add(DefaultActivityDuration)
}
