package nav

import (
	"testing"

	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNavigatorFloor(t *testing.T) {
	n := New()
	assert.Equal(t, 1, n.Current(), "Навигатор стартует с первой недели")

	assert.Equal(t, 1, n.Previous(), "Ниже первой недели навигатор не уходит")
	assert.Equal(t, 2, n.Next())
	assert.Equal(t, 1, n.Previous())
}

func TestNavigatorSetWeek(t *testing.T) {
	n := New()

	err := n.SetWeek(0)
	assert.True(t, errs.IsKind(err, errs.Validation), "Неположительная неделя отклоняется")
	assert.Equal(t, 1, n.Current())

	// Переход на неделю без расписания — штатный путь создания новой недели.
	assert.NoError(t, n.SetWeek(42))
	assert.Equal(t, 42, n.Current())
}

func TestScheduleForCurrentWeek(t *testing.T) {
	n := New()
	schedules := []models.Schedule{
		{ID: models.NewDraftID(1), WeekNumber: 1},
		{ID: models.NewDraftID(2), WeekNumber: 3},
	}

	sched, found := n.ScheduleForCurrentWeek(schedules)
	assert.True(t, found)
	assert.Equal(t, 1, sched.WeekNumber)

	n.SetWeek(2)
	_, found = n.ScheduleForCurrentWeek(schedules)
	assert.False(t, found, "Для недели без расписания возвращается пусто")
}
