package models

import "fmt"

// DayOfWeek — день недели в формате API платформы.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var allDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDayOfWeek проверяет и нормализует значение дня недели.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	for _, d := range allDays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("неизвестный день недели: %q", s)
}

// Valid сообщает, входит ли значение в допустимый набор.
func (d DayOfWeek) Valid() bool {
	for _, known := range allDays {
		if d == known {
			return true
		}
	}
	return false
}

// Weekdays — дни, отображаемые в недельной сетке (суббота и воскресенье —
// допустимые данные, но в сетку не попадают).
func Weekdays() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}
}
