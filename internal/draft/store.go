package draft

import (
	"strings"
	"sync"

	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"
)

// Store — хранилище расписаний и активностей одной сессии редактирования.
// В черновом режиме (создание класса) все сущности живут только здесь, пока
// оркестратор не отправит их на платформу. В режиме правки существующего класса
// хранилище заполняется серверными копиями через Seed, а новые сущности всё равно
// получают черновые ID до сохранения.
//
// Порядок добавления расписаний сохраняется: именно в этом порядке оркестратор
// отправляет их на платформу.
type Store struct {
	mu sync.Mutex

	draftMode bool
	classID   models.ID

	nextID     int64
	schedules  []*models.Schedule
	activities []*models.Activity
}

// NewStore создает хранилище для чернового режима (класса ещё нет).
func NewStore() *Store {
	return &Store{draftMode: true}
}

// NewEditStore создает хранилище для правки существующего класса.
func NewEditStore(classID int64) *Store {
	return &Store{classID: models.RealID(classID)}
}

// DraftMode сообщает, работает ли сессия без созданного класса.
func (s *Store) DraftMode() bool {
	return s.draftMode
}

// ClassID — идентификатор класса (пустой в черновом режиме).
func (s *Store) ClassID() models.ID {
	return s.classID
}

func (s *Store) issueID() models.ID {
	s.nextID++
	return models.NewDraftID(s.nextID)
}

// Seed загружает серверные копии расписаний и активностей (режим правки).
// Черновые ID в составе seed-данных не допускаются.
func (s *Store) Seed(schedules []models.Schedule, activities []models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sched := range schedules {
		if sched.ID.IsDraft() {
			return errs.New(errs.Validation, "в seed-данных встретился черновой идентификатор расписания")
		}
		copied := sched
		s.schedules = append(s.schedules, &copied)
	}
	for _, act := range activities {
		if act.ID.IsDraft() {
			return errs.New(errs.Validation, "в seed-данных встретился черновой идентификатор активности")
		}
		copied := act
		s.activities = append(s.activities, &copied)
	}
	return nil
}

// AddSchedule добавляет расписание и выдает ему черновой ID.
// Номер недели должен быть положительным; уникальность недели в пределах класса
// хранилище сознательно не проверяет — это делает вызывающий слой,
// которому видны все расписания (см. ScheduleByWeek).
func (s *Store) AddSchedule(weekNumber int, note string) (models.Schedule, error) {
	if weekNumber < 1 {
		return models.Schedule{}, errs.New(errs.Validation, "номер недели должен быть положительным числом")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sched := &models.Schedule{
		ID:         s.issueID(),
		ClassID:    s.classID,
		WeekNumber: weekNumber,
		Note:       note,
	}
	s.schedules = append(s.schedules, sched)
	return *sched, nil
}

// AddActivity добавляет активность к существующему расписанию.
// Тема обязательна; при пустой теме хранилище не меняется.
func (s *Store) AddActivity(scheduleID models.ID, a models.Activity) (models.Activity, error) {
	if strings.TrimSpace(a.Topic) == "" {
		return models.Activity{}, errs.New(errs.Validation, "тема активности не может быть пустой")
	}
	if !a.DayOfWeek.Valid() {
		return models.Activity{}, errs.Newf(errs.Validation, "недопустимый день недели: %q", string(a.DayOfWeek))
	}
	if a.EndTime != nil && !a.StartTime.Before(*a.EndTime) {
		return models.Activity{}, errs.New(errs.Validation, "время начала должно быть раньше времени окончания")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSchedule(scheduleID) == nil {
		return models.Activity{}, errs.Newf(errs.NotFound, "расписание %s не найдено", scheduleID)
	}

	act := a
	act.ID = s.issueID()
	act.ScheduleID = scheduleID
	s.activities = append(s.activities, &act)
	return act, nil
}

// SchedulePatch — частичное обновление расписания.
type SchedulePatch struct {
	WeekNumber *int    `json:"week_number,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// ActivityPatch — частичное обновление активности.
type ActivityPatch struct {
	Topic       *string           `json:"topic,omitempty"`
	Description *string           `json:"description,omitempty"`
	DayOfWeek   *models.DayOfWeek `json:"day_of_week,omitempty"`
	StartTime   *models.TimeOfDay `json:"start_time,omitempty"`
	EndTime     *models.TimeOfDay `json:"end_time,omitempty"`
	LessonID    *int64            `json:"lesson_id,omitempty"`
}

// UpdateSchedule сливает непустые поля patch в расписание.
func (s *Store) UpdateSchedule(id models.ID, patch SchedulePatch) (models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.findSchedule(id)
	if sched == nil {
		return models.Schedule{}, errs.Newf(errs.NotFound, "расписание %s не найдено", id)
	}
	if patch.WeekNumber != nil {
		if *patch.WeekNumber < 1 {
			return models.Schedule{}, errs.New(errs.Validation, "номер недели должен быть положительным числом")
		}
		sched.WeekNumber = *patch.WeekNumber
	}
	if patch.Note != nil {
		sched.Note = *patch.Note
	}
	return *sched, nil
}

// UpdateActivity сливает непустые поля patch в активность. Проверки выполняются
// над результатом слияния: если он невалиден (в том числе инвертированный
// интервал времени), активность остается нетронутой.
func (s *Store) UpdateActivity(id models.ID, patch ActivityPatch) (models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	act := s.findActivity(id)
	if act == nil {
		return models.Activity{}, errs.Newf(errs.NotFound, "активность %s не найдена", id)
	}

	updated := *act
	if patch.Topic != nil {
		if strings.TrimSpace(*patch.Topic) == "" {
			return models.Activity{}, errs.New(errs.Validation, "тема активности не может быть пустой")
		}
		updated.Topic = *patch.Topic
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.DayOfWeek != nil {
		if !patch.DayOfWeek.Valid() {
			return models.Activity{}, errs.Newf(errs.Validation, "недопустимый день недели: %q", string(*patch.DayOfWeek))
		}
		updated.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		updated.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		updated.EndTime = patch.EndTime
	}
	if patch.LessonID != nil {
		updated.LessonID = patch.LessonID
	}
	if updated.EndTime != nil && !updated.StartTime.Before(*updated.EndTime) {
		return models.Activity{}, errs.New(errs.Validation, "время начала должно быть раньше времени окончания")
	}

	*act = updated
	return updated, nil
}

// RemoveSchedule удаляет расписание и каскадно — все его активности.
// Операция локальна и необратима; подтверждение намерения — забота вызывающего.
func (s *Store) RemoveSchedule(id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sched := range s.schedules {
		if sched.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errs.Newf(errs.NotFound, "расписание %s не найдено", id)
	}
	s.schedules = append(s.schedules[:idx], s.schedules[idx+1:]...)

	kept := s.activities[:0]
	for _, act := range s.activities {
		if act.ScheduleID != id {
			kept = append(kept, act)
		}
	}
	s.activities = kept
	return nil
}

// RemoveActivity удаляет одну активность.
func (s *Store) RemoveActivity(id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, act := range s.activities {
		if act.ID == id {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			return nil
		}
	}
	return errs.Newf(errs.NotFound, "активность %s не найдена", id)
}

// AdoptScheduleID заменяет черновой идентификатор расписания серверным
// (после успешного создания на платформе). ScheduleID активностей этого
// расписания обновляется каскадно.
func (s *Store) AdoptScheduleID(local, server models.ID) error {
	if !local.IsDraft() || server.IsDraft() || server.IsZero() {
		return errs.New(errs.Validation, "подмена идентификатора: ожидаются черновой локальный и серверный новый")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.findSchedule(local)
	if sched == nil {
		return errs.Newf(errs.NotFound, "расписание %s не найдено", local)
	}
	sched.ID = server
	for _, act := range s.activities {
		if act.ScheduleID == local {
			act.ScheduleID = server
		}
	}
	return nil
}

// AdoptActivityID заменяет черновой идентификатор активности серверным.
// После подмены повторное сохранение обновляет активность, а не создает её заново.
func (s *Store) AdoptActivityID(local, server models.ID) error {
	if !local.IsDraft() || server.IsDraft() || server.IsZero() {
		return errs.New(errs.Validation, "подмена идентификатора: ожидаются черновой локальный и серверный новый")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	act := s.findActivity(local)
	if act == nil {
		return errs.Newf(errs.NotFound, "активность %s не найдена", local)
	}
	act.ID = server
	return nil
}

// ListBySchedule возвращает активности расписания в порядке добавления.
func (s *Store) ListBySchedule(scheduleID models.ID) []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Activity
	for _, act := range s.activities {
		if act.ScheduleID == scheduleID {
			out = append(out, *act)
		}
	}
	return out
}

// Schedules возвращает копии расписаний в порядке добавления.
func (s *Store) Schedules() []models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Schedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, *sched)
	}
	return out
}

// Activities возвращает копии всех активностей в порядке добавления.
func (s *Store) Activities() []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Activity, 0, len(s.activities))
	for _, act := range s.activities {
		out = append(out, *act)
	}
	return out
}

// ScheduleByWeek ищет расписание по номеру недели.
func (s *Store) ScheduleByWeek(weekNumber int) (models.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sched := range s.schedules {
		if sched.WeekNumber == weekNumber {
			return *sched, true
		}
	}
	return models.Schedule{}, false
}

// MaxWeek — наибольший номер недели среди расписаний (0, если расписаний нет).
func (s *Store) MaxWeek() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	max := 0
	for _, sched := range s.schedules {
		if sched.WeekNumber > max {
			max = sched.WeekNumber
		}
	}
	return max
}

// ScheduleByID возвращает копию расписания по идентификатору.
func (s *Store) ScheduleByID(id models.ID) (models.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sched := s.findSchedule(id); sched != nil {
		return *sched, true
	}
	return models.Schedule{}, false
}

// ActivityByID возвращает копию активности по идентификатору.
func (s *Store) ActivityByID(id models.ID) (models.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if act := s.findActivity(id); act != nil {
		return *act, true
	}
	return models.Activity{}, false
}

func (s *Store) findSchedule(id models.ID) *models.Schedule {
	for _, sched := range s.schedules {
		if sched.ID == id {
			return sched
		}
	}
	return nil
}

func (s *Store) findActivity(id models.ID) *models.Activity {
	for _, act := range s.activities {
		if act.ID == id {
			return act
		}
	}
	return nil
}
