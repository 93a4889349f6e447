package models

import "fmt"

// ID — идентификатор сущности. Либо выдан сервером платформы, либо является
// черновым (локальным) и живёт только внутри сессии редактирования.
// Черновой ID по построению никогда не равен серверному: признак Draft — часть типа,
// а не соглашение о диапазоне чисел.
type ID struct {
	Value int64 `json:"value"`
	Draft bool  `json:"draft,omitempty"`
}

// RealID оборачивает серверный идентификатор.
func RealID(v int64) ID {
	return ID{Value: v}
}

// NewDraftID оборачивает локальный номер черновой сущности.
func NewDraftID(v int64) ID {
	return ID{Value: v, Draft: true}
}

// IsDraft сообщает, является ли идентификатор черновым.
func (id ID) IsDraft() bool {
	return id.Draft
}

// IsZero — пустой (не назначенный) идентификатор.
func (id ID) IsZero() bool {
	return id.Value == 0 && !id.Draft
}

func (id ID) String() string {
	if id.Draft {
		return fmt.Sprintf("draft-%d", id.Value)
	}
	return fmt.Sprintf("%d", id.Value)
}
