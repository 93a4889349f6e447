package handlers

import (
	"net/http"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
)

type AddScheduleRequest struct {
	// Номер недели (положительное целое, уникален в пределах класса)
	WeekNumber int `json:"week_number" binding:"required,min=1"`
	// Примечание к неделе
	Note string `json:"note"`
}

// AddScheduleHandler добавляет расписание недели в черновик
// @Summary		Добавление расписания недели
// @Description	Хранилище сессии само уникальность недели не проверяет — проверка выполняется здесь, где видны все расписания класса
// @Tags			schedules
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			schedule	body		AddScheduleRequest	true	"Данные расписания"
// @Security		BearerAuth
// @Success		201	{object}	models.Schedule	"Расписание добавлено"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Неделя уже занята (DUPLICATE_WEEK)"
// @Router			/api/sessions/{id}/schedules [post]
func AddScheduleHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}

	var req AddScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	if _, exists := sess.Store.ScheduleByWeek(req.WeekNumber); exists {
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Code:    "DUPLICATE_WEEK",
			Message: "Расписание для этой недели уже существует",
		})
		return
	}

	sched, err := sess.Store.AddSchedule(req.WeekNumber, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// UpdateScheduleHandler обновляет поля расписания в черновике
// @Summary		Правка расписания недели
// @Tags			schedules
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			sid	path		string	true	"ID расписания (число или draft-N)"
// @Param			patch	body		draft.SchedulePatch	true	"Изменяемые поля"
// @Security		BearerAuth
// @Success		200	{object}	models.Schedule
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND, NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Неделя уже занята (DUPLICATE_WEEK)"
// @Router			/api/sessions/{id}/schedules/{sid} [put]
func UpdateScheduleHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	scheduleID, err := parseEntityID(c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}

	var patch draft.SchedulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	if patch.WeekNumber != nil {
		if existing, exists := sess.Store.ScheduleByWeek(*patch.WeekNumber); exists && existing.ID != scheduleID {
			c.JSON(http.StatusConflict, response.ErrorResponse{
				Code:    "DUPLICATE_WEEK",
				Message: "Расписание для этой недели уже существует",
			})
			return
		}
	}

	sched, err := sess.Store.UpdateSchedule(scheduleID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sched)
}

// RemoveScheduleHandler удаляет расписание из черновика каскадно
// @Summary		Удаление расписания недели
// @Description	Вместе с расписанием удаляются все его активности. Операция локальна и необратима; подтверждение у пользователя — забота консоли
// @Tags			schedules
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			sid	path		string	true	"ID расписания (число или draft-N)"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND, NOT_FOUND)"
// @Router			/api/sessions/{id}/schedules/{sid} [delete]
func RemoveScheduleHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	scheduleID, err := parseEntityID(c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := sess.Store.RemoveSchedule(scheduleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Расписание и его активности удалены из черновика"})
}

// ListSchedulesHandler возвращает расписания черновика в порядке добавления
// @Summary		Список расписаний сессии
// @Tags			schedules
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Security		BearerAuth
// @Success		200	{array}		models.Schedule
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id}/schedules [get]
func ListSchedulesHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Store.Schedules())
}
