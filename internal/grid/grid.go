package grid

import (
	"kinder_admin/internal/models"
)

// Slot — настроенный интервал времени, по которому раскладывается недельная сетка.
type Slot struct {
	Label string           `json:"label"`
	Start models.TimeOfDay `json:"start"`
	End   models.TimeOfDay `json:"end"`
}

// Contains — попадает ли время начала активности в интервал [Start, End).
func (s Slot) Contains(t models.TimeOfDay) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// DefaultSlots — распорядок дня детского сада по умолчанию.
func DefaultSlots() []Slot {
	return []Slot{
		{Label: "Утро", Start: mustTime("08:00"), End: mustTime("09:30")},
		{Label: "До обеда", Start: mustTime("09:30"), End: mustTime("11:00")},
		{Label: "После сна", Start: mustTime("14:00"), End: mustTime("15:30")},
		{Label: "Вечер", Start: mustTime("15:30"), End: mustTime("17:00")},
	}
}

func mustTime(s string) models.TimeOfDay {
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Cell — одна ячейка сетки: слот и активности, чьё время начала в него попало.
// Активностей в ячейке может быть несколько — пересечения по времени модель данных
// не запрещает, интерфейс просто показывает их стопкой.
type Cell struct {
	Slot       Slot              `json:"slot"`
	Activities []models.Activity `json:"activities"`
}

// DayColumn — колонка сетки для одного дня недели.
type DayColumn struct {
	Day   models.DayOfWeek `json:"day"`
	Cells []Cell           `json:"cells"`
}

// Grid — готовая к отрисовке сетка день × слот.
// Omitted — сколько активностей отображаемых дней не попало ни в один слот:
// такие активности из сетки выпадают (но остаются в хранилище), а счётчик даёт
// интерфейсу возможность показать предупреждение.
type Grid struct {
	Days    []DayColumn `json:"days"`
	Omitted int         `json:"omitted"`
}

// Group раскладывает активности по дням и слотам. Результат детерминирован:
// порядок дней и слотов — как в аргументах, порядок активностей в ячейке —
// как во входном списке. Активности с днём вне набора days молча исключаются
// (данные при этом остаются во владеющем хранилище).
func Group(activities []models.Activity, days []models.DayOfWeek, slots []Slot) Grid {
	displayed := make(map[models.DayOfWeek]int, len(days))
	g := Grid{Days: make([]DayColumn, len(days))}
	for i, day := range days {
		displayed[day] = i
		g.Days[i] = DayColumn{Day: day, Cells: make([]Cell, len(slots))}
		for j, slot := range slots {
			g.Days[i].Cells[j] = Cell{Slot: slot}
		}
	}

	for _, act := range activities {
		dayIdx, shown := displayed[act.DayOfWeek]
		if !shown {
			continue
		}
		placed := false
		for j, slot := range slots {
			if slot.Contains(act.StartTime) {
				cell := &g.Days[dayIdx].Cells[j]
				cell.Activities = append(cell.Activities, act)
				placed = true
				break
			}
		}
		if !placed {
			g.Omitted++
		}
	}
	return g
}

// Flatten собирает активности сетки обратно в плоский список
// (в порядке день → слот → позиция в ячейке).
func (g Grid) Flatten() []models.Activity {
	var out []models.Activity
	for _, day := range g.Days {
		for _, cell := range day.Cells {
			out = append(out, cell.Activities...)
		}
	}
	return out
}

// FreeSlots возвращает слоты дня, в которых ещё нет ни одной активности, —
// именно их форма создания активности предлагает пользователю.
func (g Grid) FreeSlots(day models.DayOfWeek) []Slot {
	for _, col := range g.Days {
		if col.Day != day {
			continue
		}
		var free []Slot
		for _, cell := range col.Cells {
			if len(cell.Activities) == 0 {
				free = append(free, cell.Slot)
			}
		}
		return free
	}
	return nil
}
