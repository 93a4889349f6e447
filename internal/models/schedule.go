package models

// Schedule — недельный контейнер активностей внутри класса.
// Номер недели уникален в пределах класса; эту проверку выполняет не модель,
// а слой, которому видны все расписания класса сразу.
type Schedule struct {
	ID         ID     `json:"id"`
	ClassID    ID     `json:"class_id"` // пустой, пока класс ещё не создан (черновой режим)
	WeekNumber int    `json:"week_number"`
	Note       string `json:"note,omitempty"`
}
