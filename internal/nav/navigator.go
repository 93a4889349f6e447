package nav

import (
	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"
)

// Navigator отслеживает отображаемую неделю. Сам по себе верхней границы не имеет:
// переход на неделю без расписания — штатный способ завести расписание новой недели.
// Ограничение сверху (max(недель)+1) накладывает вызывающий слой.
type Navigator struct {
	current int
}

// New создает навигатор, стоящий на первой неделе.
func New() *Navigator {
	return &Navigator{current: 1}
}

// Current — текущая неделя (всегда >= 1).
func (n *Navigator) Current() int {
	return n.current
}

// Previous сдвигается на неделю назад; ниже первой недели не уходит.
func (n *Navigator) Previous() int {
	if n.current > 1 {
		n.current--
	}
	return n.current
}

// Next сдвигается на неделю вперед.
func (n *Navigator) Next() int {
	n.current++
	return n.current
}

// SetWeek переходит на произвольную положительную неделю,
// в том числе на ту, для которой расписания ещё нет.
func (n *Navigator) SetWeek(week int) error {
	if week < 1 {
		return errs.New(errs.Validation, "номер недели должен быть положительным числом")
	}
	n.current = week
	return nil
}

// ScheduleForCurrentWeek — чистый поиск расписания текущей недели.
func (n *Navigator) ScheduleForCurrentWeek(schedules []models.Schedule) (models.Schedule, bool) {
	for _, sched := range schedules {
		if sched.WeekNumber == n.current {
			return sched, true
		}
	}
	return models.Schedule{}, false
}
