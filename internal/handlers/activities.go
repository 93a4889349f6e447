package handlers

import (
	"net/http"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/errs"
	"kinder_admin/internal/models"
	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
)

type AddActivityRequest struct {
	// Тема активности (обязательна)
	Topic string `json:"topic" binding:"required"`
	// Описание
	Description string `json:"description"`
	// День недели: MONDAY..SUNDAY (в сетке показываются только MONDAY–FRIDAY)
	DayOfWeek string `json:"day_of_week" binding:"required"`
	// Время начала, HH:MM
	StartTime string `json:"start_time" binding:"required"`
	// Время окончания, HH:MM; пустое — выводится из занятия (или 90 минут)
	EndTime string `json:"end_time"`
	// Привязанное занятие из каталога платформы
	LessonID *int64 `json:"lesson_id"`
}

func (r AddActivityRequest) toActivity() (models.Activity, error) {
	day, err := models.ParseDayOfWeek(r.DayOfWeek)
	if err != nil {
		return models.Activity{}, errs.Wrap(errs.Validation, "недопустимый день недели", err)
	}
	start, err := models.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return models.Activity{}, errs.Wrap(errs.Validation, "неверное время начала", err)
	}
	act := models.Activity{
		Topic:       r.Topic,
		Description: r.Description,
		DayOfWeek:   day,
		StartTime:   start,
		LessonID:    r.LessonID,
	}
	if r.EndTime != "" {
		end, err := models.ParseTimeOfDay(r.EndTime)
		if err != nil {
			return models.Activity{}, errs.Wrap(errs.Validation, "неверное время окончания", err)
		}
		act.EndTime = &end
	}
	return act, nil
}

// AddActivityHandler добавляет активность к расписанию черновика
// @Summary		Добавление активности
// @Description	Активность получает черновой ID до сохранения на платформе. Пересечения по времени внутри дня модель не запрещает — консоль предлагает только свободные слоты
// @Tags			activities
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			sid	path		string	true	"ID расписания (число или draft-N)"
// @Param			activity	body		AddActivityRequest	true	"Данные активности"
// @Security		BearerAuth
// @Success		201	{object}	models.Activity	"Активность добавлена"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND, NOT_FOUND)"
// @Router			/api/sessions/{id}/schedules/{sid}/activities [post]
func AddActivityHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	scheduleID, err := parseEntityID(c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	act, err := req.toActivity()
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := sess.Store.AddActivity(scheduleID, act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateActivityHandler обновляет поля активности в черновике
// @Summary		Правка активности
// @Tags			activities
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			aid	path		string	true	"ID активности (число или draft-N)"
// @Param			patch	body		draft.ActivityPatch	true	"Изменяемые поля"
// @Security		BearerAuth
// @Success		200	{object}	models.Activity
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND, NOT_FOUND)"
// @Router			/api/sessions/{id}/activities/{aid} [put]
func UpdateActivityHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	activityID, err := parseEntityID(c.Param("aid"))
	if err != nil {
		respondError(c, err)
		return
	}

	var patch draft.ActivityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	act, err := sess.Store.UpdateActivity(activityID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, act)
}

// RemoveActivityHandler удаляет одну активность из черновика
// @Summary		Удаление активности
// @Tags			activities
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			aid	path		string	true	"ID активности (число или draft-N)"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND, NOT_FOUND)"
// @Router			/api/sessions/{id}/activities/{aid} [delete]
func RemoveActivityHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	activityID, err := parseEntityID(c.Param("aid"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := sess.Store.RemoveActivity(activityID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Активность удалена из черновика"})
}

// ListActivitiesHandler возвращает активности расписания в порядке добавления
// @Summary		Активности расписания
// @Tags			activities
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			sid	path		string	true	"ID расписания (число или draft-N)"
// @Security		BearerAuth
// @Success		200	{array}		models.Activity
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id}/schedules/{sid}/activities [get]
func ListActivitiesHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	scheduleID, err := parseEntityID(c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}

	activities := sess.Store.ListBySchedule(scheduleID)
	if activities == nil {
		activities = []models.Activity{}
	}
	c.JSON(http.StatusOK, activities)
}
