package grid

import (
	"testing"

	"kinder_admin/internal/models"

	"github.com/stretchr/testify/assert"
)

func activity(t *testing.T, topic string, day models.DayOfWeek, start string) models.Activity {
	parsed, err := models.ParseTimeOfDay(start)
	assert.NoError(t, err)
	return models.Activity{
		ID:        models.NewDraftID(int64(len(topic))),
		Topic:     topic,
		DayOfWeek: day,
		StartTime: parsed,
	}
}

func TestGroupPlacesActivityIntoSlot(t *testing.T) {
	slot := Slot{Label: "Утро", Start: mustTime("08:00"), End: mustTime("09:30")}
	math := activity(t, "Математика", models.Monday, "08:00")

	g := Group([]models.Activity{math}, models.Weekdays(), []Slot{slot})

	assert.Equal(t, models.Monday, g.Days[0].Day)
	assert.Len(t, g.Days[0].Cells[0].Activities, 1, "Активность должна попасть в ячейку MONDAY × Утро")
	assert.Equal(t, "Математика", g.Days[0].Cells[0].Activities[0].Topic)
	assert.Equal(t, 0, g.Omitted)
}

func TestGroupExcludesDaysOutsideSet(t *testing.T) {
	slot := Slot{Label: "Утро", Start: mustTime("08:00"), End: mustTime("09:30")}
	math := activity(t, "Математика", models.Monday, "08:00")

	// Набор дней без понедельника: активность молча исключается из сетки.
	g := Group([]models.Activity{math}, []models.DayOfWeek{models.Tuesday, models.Wednesday}, []Slot{slot})

	assert.Empty(t, g.Flatten(), "Активность дня вне набора не должна попасть в сетку")
	assert.Equal(t, 0, g.Omitted, "Исключение по дню не считается выпадением из слотов")

	saturday := activity(t, "Кружок", models.Saturday, "08:30")
	g = Group([]models.Activity{saturday}, models.Weekdays(), []Slot{slot})
	assert.Empty(t, g.Flatten(), "Суббота — допустимые данные, но в недельной сетке не показывается")
}

func TestGroupCountsOffGridActivities(t *testing.T) {
	slot := Slot{Label: "Утро", Start: mustTime("08:00"), End: mustTime("09:30")}
	early := activity(t, "Зарядка", models.Monday, "06:00")

	g := Group([]models.Activity{early}, models.Weekdays(), []Slot{slot})

	assert.Empty(t, g.Flatten(), "Активность вне всех слотов выпадает из сетки")
	assert.Equal(t, 1, g.Omitted, "Выпавшая активность должна быть посчитана")
}

func TestGroupIsIdempotent(t *testing.T) {
	slots := DefaultSlots()
	activities := []models.Activity{
		activity(t, "Математика", models.Monday, "08:00"),
		activity(t, "Рисование", models.Monday, "08:30"),
		activity(t, "Музыка", models.Wednesday, "14:30"),
		activity(t, "Прогулка", models.Friday, "15:45"),
	}

	first := Group(activities, models.Weekdays(), slots)
	second := Group(first.Flatten(), models.Weekdays(), slots)

	assert.Equal(t, first.Flatten(), second.Flatten(), "Повторная группировка разложенных активностей дает ту же сетку")
	assert.Equal(t, first, second)
}

func TestGroupStacksMultipleActivitiesInOneCell(t *testing.T) {
	slot := Slot{Label: "Утро", Start: mustTime("08:00"), End: mustTime("09:30")}
	first := activity(t, "Математика", models.Monday, "08:00")
	second := activity(t, "Рисование", models.Monday, "09:00")

	g := Group([]models.Activity{first, second}, models.Weekdays(), []Slot{slot})

	cell := g.Days[0].Cells[0]
	assert.Len(t, cell.Activities, 2, "Несколько активностей в одной ячейке допустимы: пересечения — мягкий инвариант")
	assert.Equal(t, "Математика", cell.Activities[0].Topic, "Порядок в ячейке — порядок входного списка")
}

func TestFreeSlots(t *testing.T) {
	slots := DefaultSlots()
	math := activity(t, "Математика", models.Monday, "08:15")

	g := Group([]models.Activity{math}, models.Weekdays(), slots)

	free := g.FreeSlots(models.Monday)
	assert.Len(t, free, len(slots)-1, "Занятый слот не предлагается для новой активности")
	for _, slot := range free {
		assert.NotEqual(t, "Утро", slot.Label)
	}

	assert.Len(t, g.FreeSlots(models.Tuesday), len(slots), "В пустой день свободны все слоты")
	assert.Nil(t, g.FreeSlots(models.Saturday), "Для дня вне сетки слотов нет")
}
