package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay — время суток в минутах от полуночи. В JSON ходит строкой "HH:MM",
// как того ждёт API платформы.
type TimeOfDay int

// ParseTimeOfDay разбирает строку вида "HH:MM" (допускается "HH:MM:SS", секунды отбрасываются).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) == 8 { // "HH:MM:SS"
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("неверный формат времени %q: ожидается HH:MM", s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Before — строгое сравнение "раньше".
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// Add прибавляет длительность (с точностью до минуты).
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// IsZero — нулевое значение, используется как "время не задано".
func (t TimeOfDay) IsZero() bool {
	return t == 0
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = 0
		return nil
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
