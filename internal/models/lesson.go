package models

import (
	"encoding/json"
	"time"
)

// Lesson — занятие из каталога платформы (внешние данные, используются только
// для вычисления времени окончания активности).
type Lesson struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Duration time.Duration `json:"-"`
}

// lessonJSON — проводной формат: платформа отдаёт длительность в минутах.
type lessonJSON struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (l Lesson) MarshalJSON() ([]byte, error) {
	return json.Marshal(lessonJSON{
		ID:              l.ID,
		Name:            l.Name,
		DurationMinutes: int(l.Duration / time.Minute),
	})
}

func (l *Lesson) UnmarshalJSON(b []byte) error {
	var raw lessonJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	l.ID = raw.ID
	l.Name = raw.Name
	l.Duration = time.Duration(raw.DurationMinutes) * time.Minute
	return nil
}
