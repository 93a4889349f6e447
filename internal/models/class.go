package models

// Class — класс детского сада. Сервис не хранит классы сам: это проекция
// данных платформы, нужная мастеру создания класса.
type Class struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TeacherID   *int64 `json:"teacher_id,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
}
