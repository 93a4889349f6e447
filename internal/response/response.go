package response

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Message string `json:"message" example:"Операция успешно выполнена"`
}

// ErrorResponse представляет ответ с ошибкой API
type ErrorResponse struct {
	// Код ошибки для программной обработки
	// example: VALIDATION_ERROR
	Code string `json:"code"`

	// Человекочитаемое сообщение об ошибке
	// example: тема активности не может быть пустой
	Message string `json:"message"`

	// Дополнительные детали об ошибке (опционально)
	// example: поле week_number должно быть положительным
	Details string `json:"details,omitempty"`
}

// SessionResponse представляет сводку сессии редактирования
type SessionResponse struct {
	// Идентификатор сессии
	// example: 7cceb089-5b24-4a54-8a33-77a57d0f1b6e
	SessionID string `json:"session_id"`

	// Режим: draft (создание класса) или edit (правка существующего)
	// example: draft
	Mode string `json:"mode"`

	// Идентификатор класса (только в режиме edit)
	ClassID int64 `json:"class_id,omitempty"`

	// Текущая неделя навигатора
	CurrentWeek int `json:"current_week"`

	// Количество расписаний в черновике
	Schedules int `json:"schedules"`

	// Количество активностей в черновике
	Activities int `json:"activities"`
}
